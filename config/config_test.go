package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodmix/preset"
)

func TestNewMoodmixConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewMoodmixConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.ChannelCount)
	assert.Equal(t, 0.84, cfg.OnLevel)
	assert.Equal(t, 0.92, cfg.FadeCrossover)
	assert.True(t, cfg.PollInterval >= cfg.MinPollInterval)

	// the default preset table must pass catalog validation
	_, err = preset.NewCatalog(cfg.Presets...)
	require.NoError(t, err)
}

func TestDefaultPresetsPartitionAllChannels(t *testing.T) {
	t.Parallel()

	for _, p := range DefaultPresets(12) {
		seen := make(map[int]bool)
		for _, ch := range append(append([]int{}, p.Up...), p.Down...) {
			assert.False(t, seen[ch], "channel %d listed twice in %s", ch, p.Name)
			assert.GreaterOrEqual(t, ch, 0)
			assert.Less(t, ch, 12)
			seen[ch] = true
		}
		assert.Len(t, seen, 12, "preset %s does not cover all channels", p.Name)
	}
}

func TestDaytimeAndNocturnalShape(t *testing.T) {
	t.Parallel()

	presets := DefaultPresets(12)
	require.Len(t, presets, 2)

	daytime := presets[0]
	assert.Equal(t, "Daytime", daytime.Name)
	assert.Equal(t, []int{0, 1, 2, 3}, daytime.Up)

	nocturnal := presets[1]
	assert.Equal(t, "Nocturnal", nocturnal.Name)
	assert.Equal(t, []int{5, 6, 7, 8}, nocturnal.Up)
	assert.Contains(t, nocturnal.Down, 4)
	assert.Contains(t, nocturnal.Down, 11)
}
