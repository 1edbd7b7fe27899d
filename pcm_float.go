package fsb5

import "math"

const (
	scalePCMInt32 = 2147483648.0
	maxPCMInt32   = 2147483647
)

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// float32ToPCMInt32 scales a float sample to the 32-bit integer range.
// NaN becomes silence.
func float32ToPCMInt32(value float32) int32 {
	if math.IsNaN(float64(value)) {
		return 0
	}

	value = clampFloat32(value, -1, 1)

	sample := min(int64(math.Round(float64(value)*scalePCMInt32)), maxPCMInt32)
	if sample < -scalePCMInt32 {
		sample = -scalePCMInt32
	}

	return int32(sample)
}
