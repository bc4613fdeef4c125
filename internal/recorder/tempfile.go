package recorder

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const tempPrefix = "RecordTemp_"

// TempRecordingPath returns a fresh output path under dir, unique per
// session so a crash never clobbers an earlier recording.
func TempRecordingPath(dir string) string {
	return filepath.Join(dir, tempPrefix+uuid.New().String()+".wav")
}

// SweepTempRecordings removes recordings left behind by earlier runs.
func SweepTempRecordings(dir string, log zerolog.Logger) {
	matches, err := filepath.Glob(filepath.Join(dir, tempPrefix+"*.wav"))
	if err != nil {
		return
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			log.Debug().Err(err).Str("file", path).Msg("Failed to remove stale recording")
			continue
		}
		log.Debug().Str("file", path).Msg("Removed stale recording")
	}
}
