package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	t.Parallel()

	s := NewStore(12)
	require.Equal(t, 12, s.Channels())
	require.Equal(t, NoScene, s.CurrentScene())

	ch, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ch.Volume)
	assert.False(t, ch.Muted)
	assert.Equal(t, NoClip, ch.ActiveClip)
}

func TestOutOfRangeIndicesAreRejected(t *testing.T) {
	t.Parallel()

	s := NewStore(9)

	_, err := s.Get(9)
	require.ErrorIs(t, err, ErrChannelNotFound)
	_, err = s.Get(-1)
	require.ErrorIs(t, err, ErrChannelNotFound)

	require.ErrorIs(t, s.SetVolume(9, 0.5), ErrChannelNotFound)
	require.ErrorIs(t, s.SetMute(-1, true), ErrChannelNotFound)
	require.ErrorIs(t, s.SetActiveClip(42, 1), ErrChannelNotFound)
	require.ErrorIs(t, s.ClearActiveClip(42, 1), ErrChannelNotFound)

	// the store itself is untouched
	snap := s.Snapshot()
	for _, ch := range snap.Channels {
		assert.Equal(t, 0.0, ch.Volume)
		assert.False(t, ch.Muted)
	}
}

func TestSetVolumeClampsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore(9)

	require.NoError(t, s.SetVolume(3, 0.7))
	require.NoError(t, s.SetVolume(3, 0.7))
	ch, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 0.7, ch.Volume)

	require.NoError(t, s.SetVolume(3, 1.5))
	ch, _ = s.Get(3)
	assert.Equal(t, 1.0, ch.Volume)

	require.NoError(t, s.SetVolume(3, -0.2))
	ch, _ = s.Get(3)
	assert.Equal(t, 0.0, ch.Volume)
}

func TestSetMuteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore(9)

	require.NoError(t, s.SetMute(2, true))
	require.NoError(t, s.SetMute(2, true))
	ch, err := s.Get(2)
	require.NoError(t, err)
	assert.True(t, ch.Muted)
}

func TestClearActiveClipIgnoresStaleStops(t *testing.T) {
	t.Parallel()

	s := NewStore(9)

	require.NoError(t, s.SetActiveClip(1, 4))

	// a stop for a different clip is a no-op
	require.NoError(t, s.ClearActiveClip(1, 2))
	ch, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 4, ch.ActiveClip)

	// a stop for the recorded clip clears it
	require.NoError(t, s.ClearActiveClip(1, 4))
	ch, _ = s.Get(1)
	assert.Equal(t, NoClip, ch.ActiveClip)
}

func TestSetActiveClipNegativeClears(t *testing.T) {
	t.Parallel()

	s := NewStore(9)

	require.NoError(t, s.SetActiveClip(0, 3))
	require.NoError(t, s.SetActiveClip(0, -1))
	ch, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, NoClip, ch.ActiveClip)
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore(9)
	require.NoError(t, s.SetVolume(0, 0.5))
	s.SetScene(1)

	snap := s.Snapshot()
	snap.Channels[0].Volume = 0.9

	ch, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ch.Volume)
	assert.Equal(t, 1, snap.CurrentScene)
}
