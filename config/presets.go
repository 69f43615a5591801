package config

import "moodmix/preset"

// DefaultPresets returns the mood table for the installation. Each mood
// partitions every channel: unlisted channels would be left alone by a
// transition, which is not what we want for a full mood swap.
func DefaultPresets(channelCount int) []preset.Preset {
	return []preset.Preset{
		daytimePreset(channelCount),
		nocturnalPreset(channelCount),
	}
}

func daytimePreset(channelCount int) preset.Preset {
	up := []int{0, 1, 2, 3}
	return preset.Preset{
		ID:    0,
		Name:  "Daytime",
		Up:    up,
		Down:  remainingChannels(channelCount, up),
		Scene: 0,
	}
}

func nocturnalPreset(channelCount int) preset.Preset {
	up := []int{5, 6, 7, 8}
	return preset.Preset{
		ID:    1,
		Name:  "Nocturnal",
		Up:    up,
		Down:  remainingChannels(channelCount, up),
		Scene: 1,
	}
}

func remainingChannels(channelCount int, up []int) []int {
	inUp := make(map[int]bool, len(up))
	for _, ch := range up {
		inUp[ch] = true
	}

	down := make([]int, 0, channelCount-len(up))
	for ch := 0; ch < channelCount; ch++ {
		if !inUp[ch] {
			down = append(down, ch)
		}
	}
	return down
}
