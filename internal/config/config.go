package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vocap/vocap/internal/device"
)

const (
	// DefaultSilenceThreshold is the linear RMS below which a frame counts as
	// silence (-30 dB = 0.0316, -40 dB = 0.01, -50 dB = 0.003).
	DefaultSilenceThreshold = 0.01

	// DefaultSilentStartTimeout is how long initial silence runs before the
	// engine stops a recording on its own, in seconds.
	DefaultSilentStartTimeout = 4.0

	// DefaultSampleRate is the recording sample rate. 16 kHz is enough for
	// speech; 22.05 kHz leaves a safety margin and stays cheap on disk.
	DefaultSampleRate = 22050
)

type Config struct {
	// SilenceThreshold is linear full-scale RMS, not dB.
	SilenceThreshold float64 `json:"silence_threshold"`

	// SilentStartTimeout is seconds of initial silence before auto-stop.
	// nil disables the feature entirely.
	SilentStartTimeout *float64 `json:"silent_start_timeout"`

	SampleRate int       `json:"sample_rate"`
	Device     DeviceRef `json:"input_device"`
	LogLevel   string    `json:"log_level"`
}

// Default returns the configuration used when nothing is stored on disk.
func Default() *Config {
	timeout := DefaultSilentStartTimeout
	return &Config{
		SilenceThreshold:   DefaultSilenceThreshold,
		SilentStartTimeout: &timeout,
		SampleRate:         DefaultSampleRate,
		LogLevel:           "info",
	}
}

// Load reads the config from disk or returns defaults.
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(configPath()); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	path := configPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DeviceRef is the persisted reference to an input device. Older installs
// stored a bare numeric device index; current ones store a structured
// identifier. Exactly one variant is set; Canonical resolves either into an
// Identifier once, at load time, so the ambiguity never travels further.
type DeviceRef struct {
	LegacyIndex *int
	Identifier  *device.Identifier
}

func (r *DeviceRef) UnmarshalJSON(data []byte) error {
	*r = DeviceRef{}

	// json.Unmarshal leaves an int untouched on null, so catch it here.
	if string(data) == "null" {
		return nil
	}

	var index int
	if err := json.Unmarshal(data, &index); err == nil {
		r.LegacyIndex = &index
		return nil
	}

	var id device.Identifier
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	if !id.IsZero() {
		r.Identifier = &id
	}
	return nil
}

func (r DeviceRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.Identifier != nil:
		return json.Marshal(r.Identifier)
	case r.LegacyIndex != nil:
		return json.Marshal(*r.LegacyIndex)
	default:
		return []byte("null"), nil
	}
}

// Canonical resolves the reference into a device identifier. A legacy index
// is looked up against the live catalog and discarded; if it is stale, or
// nothing is stored, ok=false and the caller uses the system default.
func (r DeviceRef) Canonical(catalog *device.Catalog) (device.Identifier, bool) {
	switch {
	case r.Identifier != nil:
		return *r.Identifier, true
	case r.LegacyIndex != nil:
		d, ok := catalog.ByIndex(*r.LegacyIndex)
		if !ok {
			return device.Identifier{}, false
		}
		return device.IdentifierFor(d), true
	default:
		return device.Identifier{}, false
	}
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "vocap", "config.json")
}
