package config

import (
	"time"

	"moodmix/preset"
)

const (
	// DefaultChannelCount is the number of mirrored mixer channels. The
	// installation rig runs a 12-track set; smaller deployments use 9.
	DefaultChannelCount = 12

	// OnLevel is the fader level a channel settles at when its mood brings
	// it up. Deliberately below 1.0 to leave headroom for the mix.
	OnLevel = 0.84

	// FadeCrossover tunes where the outgoing mood hits silence relative to
	// the ramp and how hard the incoming one accelerates. Tuned by ear, not
	// derived.
	FadeCrossover = 0.92
)

// MoodmixConfig represents options that configure the global behavior of the program
type MoodmixConfig struct {
	// Address of the AbletonOSC server
	AbletonIP string

	// Port AbletonOSC listens for commands on
	SendPort int

	// Port AbletonOSC delivers notifications to
	ReceivePort int

	// Number of mirrored mixer channels
	ChannelCount int

	// Crossfade tuning
	OnLevel       float64
	FadeCrossover float64
	FadeDuration  time.Duration
	FadeSteps     int

	// How often the full mixer state is re-read to heal the mirror
	RefreshInterval time.Duration

	// Desired-state source
	PollURL         string
	PollInterval    time.Duration
	MinPollInterval time.Duration

	// The mood presets
	Presets []preset.Preset
}

// NewMoodmixConfig creates a new MoodmixConfig object with reasonable defaults for real usage
func NewMoodmixConfig() (MoodmixConfig, error) {
	// TODO - support passing in a config file one day

	return MoodmixConfig{
		AbletonIP:       "127.0.0.1",
		SendPort:        11000,
		ReceivePort:     11001,
		ChannelCount:    DefaultChannelCount,
		OnLevel:         OnLevel,
		FadeCrossover:   FadeCrossover,
		FadeDuration:    3 * time.Second,
		FadeSteps:       30,
		RefreshInterval: 10 * time.Second,
		PollURL:         "http://127.0.0.1:8080/desired-state",
		PollInterval:    10 * time.Second,
		MinPollInterval: time.Second,
		Presets:         DefaultPresets(DefaultChannelCount),
	}, nil
}
