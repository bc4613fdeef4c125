package recorder

import "math"

// Full-scale reference for 16-bit samples: RMS and thresholds live on a
// 0.0-1.0 scale where 1.0 is 0 dBFS.
const fullScale = 32768.0

// downmixMono averages interleaved samples across channels, truncating back
// to int16 to preserve bit depth. Mono input is returned as-is.
func downmixMono(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]int16, frames)
	for f := 0; f < frames; f++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += int(samples[f*channels+c])
		}
		mono[f] = int16(sum / channels)
	}
	return mono
}

// frameRMS computes the root-mean-square of one buffer, averaging across
// channels per frame first, normalized to full scale.
func frameRMS(samples []int16, channels int) float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(samples) / channels
	if frames == 0 {
		return 0
	}
	var sum float64
	for f := 0; f < frames; f++ {
		var acc float64
		for c := 0; c < channels; c++ {
			acc += float64(samples[f*channels+c])
		}
		v := acc / float64(channels) / fullScale
		sum += v * v
	}
	return math.Sqrt(sum / float64(frames))
}

// rmsToDB converts a linear RMS to decibels, floored away from -Inf.
func rmsToDB(rms float64) float64 {
	return 20 * math.Log10(math.Max(rms, 1e-10))
}

// levelFromRMS maps an RMS to a display level: -60 dB and below is 0.0,
// 0 dBFS and above is 1.0.
func levelFromRMS(rms float64) float64 {
	normalized := (rmsToDB(rms) + 60) / 60
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}
