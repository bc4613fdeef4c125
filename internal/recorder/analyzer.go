package recorder

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// MinDuration is the shortest recording worth keeping, in seconds.
const MinDuration = 1.0

// Analyze validates a completed recording: long enough, and not mostly
// silence. It returns whether the file is usable and, when it is not, a
// human-readable reason. Faults while reading are reported the same way,
// never as a panic or unhandled error.
func Analyze(path string, silenceThreshold float64) (bool, string) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Sprintf("error analyzing audio: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return false, fmt.Sprintf("error analyzing audio: %v", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.SampleRate <= 0 {
		return false, "error analyzing audio: no decodable audio data"
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(buf.Data) / channels
	duration := float64(frames) / float64(buf.Format.SampleRate)
	if duration < MinDuration {
		return false, fmt.Sprintf("recording too short (%.1fs < %.1fs)", duration, MinDuration)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	var sum float64
	for _, s := range buf.Data {
		v := float64(s) / scale
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(buf.Data)))

	if rms < silenceThreshold {
		return false, fmt.Sprintf("recording contains mostly silence (RMS: %.4f / %.1fdB < threshold: %.4f)",
			rms, rmsToDB(rms), silenceThreshold)
	}

	return true, ""
}
