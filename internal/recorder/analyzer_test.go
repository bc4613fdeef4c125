package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes a mono 16-bit recording of the given length filled with
// a constant amplitude.
func writeTestWAV(t *testing.T, seconds float64, amplitude int16) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test wav: %v", err)
	}
	defer f.Close()

	sampleRate := 22050
	samples := int(seconds * float64(sampleRate))
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(amplitude)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing test wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing test wav: %v", err)
	}
	return path
}

func TestAnalyzeRejectsShortRecording(t *testing.T) {
	// Loudness does not matter below the duration floor.
	path := writeTestWAV(t, 0.5, loudAmplitude)

	valid, reason := Analyze(path, 0.01)
	if valid {
		t.Fatal("0.5s recording should be invalid")
	}
	if !strings.Contains(reason, "too short") {
		t.Errorf("reason should mention the duration floor, got %q", reason)
	}
}

func TestAnalyzeRejectsMostlySilence(t *testing.T) {
	// ~0.002 full-scale RMS against a 0.01 threshold.
	path := writeTestWAV(t, 3.0, 66)

	valid, reason := Analyze(path, 0.01)
	if valid {
		t.Fatal("near-silent recording should be invalid")
	}
	if !strings.Contains(reason, "silence") {
		t.Errorf("reason should mention silence, got %q", reason)
	}
}

func TestAnalyzeAcceptsAudibleRecording(t *testing.T) {
	path := writeTestWAV(t, 3.0, loudAmplitude)

	valid, reason := Analyze(path, 0.01)
	if !valid {
		t.Fatalf("expected a valid recording, got: %s", reason)
	}
	if reason != "" {
		t.Errorf("valid recording should carry no reason, got %q", reason)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	valid, reason := Analyze(filepath.Join(t.TempDir(), "nope.wav"), 0.01)
	if valid {
		t.Fatal("missing file should be invalid")
	}
	if reason == "" {
		t.Error("missing file should carry a reason")
	}
}

func TestAnalyzeCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("not a wav file at all"), 0644); err != nil {
		t.Fatal(err)
	}

	valid, reason := Analyze(path, 0.01)
	if valid {
		t.Fatal("corrupt file should be invalid")
	}
	if reason == "" {
		t.Error("corrupt file should carry a reason")
	}
}
