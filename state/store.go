package state

import (
	"fmt"
	"sync"
)

// NoClip is the ActiveClip value when no clip is playing on a channel.
const NoClip = -1

// NoScene is the CurrentScene value before any scene has been triggered.
const NoScene = -1

// Channel mirrors the remote state of a single mixer track.
type Channel struct {
	// Volume is the track fader level, always in [0, 1].
	Volume float64

	// Muted is the track mute flag.
	Muted bool

	// ActiveClip is the clip slot currently playing on this track, or NoClip.
	ActiveClip int
}

// MixerState is an immutable copy of the full mirror, as returned by Snapshot.
type MixerState struct {
	Channels     []Channel
	CurrentScene int
}

// Store is the local mirror of the remote mixer state. It is the single
// source of truth for everything else in the process: the notification
// dispatcher and the transition engine both write through it, so all
// mutators are safe for concurrent use.
type Store struct {
	lock         sync.Mutex
	channels     []Channel
	currentScene int
}

// NewStore creates a store mirroring the given number of channels, all
// initialized to defaults (volume 0, unmuted, no clip, no scene).
func NewStore(channels int) *Store {
	s := &Store{
		channels:     make([]Channel, channels),
		currentScene: NoScene,
	}
	for i := range s.channels {
		s.channels[i].ActiveClip = NoClip
	}
	return s
}

// Channels returns the number of mirrored channels.
func (s *Store) Channels() int {
	return len(s.channels)
}

func (s *Store) checkIndex(channel int) error {
	if channel < 0 || channel >= len(s.channels) {
		return fmt.Errorf("%w: %d (have %d channels)", ErrChannelNotFound, channel, len(s.channels))
	}
	return nil
}

// Get returns a copy of the state for a single channel.
func (s *Store) Get(channel int) (Channel, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkIndex(channel); err != nil {
		return Channel{}, err
	}
	return s.channels[channel], nil
}

// SetVolume records a new volume for a channel. Values are clamped to [0, 1]
// so the mirror invariant holds regardless of what the remote end sends.
func (s *Store) SetVolume(channel int, volume float64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkIndex(channel); err != nil {
		return err
	}
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	s.channels[channel].Volume = volume
	return nil
}

// SetMute records the mute flag for a channel.
func (s *Store) SetMute(channel int, muted bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkIndex(channel); err != nil {
		return err
	}
	s.channels[channel].Muted = muted
	return nil
}

// SetActiveClip records the clip slot playing on a channel. A negative clip
// index clears it (authoritative "nothing playing" reads use this).
func (s *Store) SetActiveClip(channel, clip int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkIndex(channel); err != nil {
		return err
	}
	if clip < 0 {
		clip = NoClip
	}
	s.channels[channel].ActiveClip = clip
	return nil
}

// ClearActiveClip clears the active clip on a channel, but only if the
// recorded clip matches the one named by the stop notification. A stale or
// duplicate stop for some other clip leaves the mirror untouched.
func (s *Store) ClearActiveClip(channel, clip int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkIndex(channel); err != nil {
		return err
	}
	if s.channels[channel].ActiveClip == clip {
		s.channels[channel].ActiveClip = NoClip
	}
	return nil
}

// SetScene records the most recently triggered scene.
func (s *Store) SetScene(scene int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.currentScene = scene
}

// CurrentScene returns the most recently triggered scene, or NoScene.
func (s *Store) CurrentScene() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.currentScene
}

// Snapshot returns a deep copy of the full mirror.
func (s *Store) Snapshot() MixerState {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := MixerState{
		Channels:     make([]Channel, len(s.channels)),
		CurrentScene: s.currentScene,
	}
	copy(out.Channels, s.channels)
	return out
}
