// Package device collapses the audio subsystem's raw, API-duplicated device
// list into one canonical set and re-identifies a chosen device across
// sessions without relying on volatile numeric indices.
package device

import "github.com/vocap/vocap/internal/audio"

// Identifier is the only persistable identity of an input device. The numeric
// index is deliberately excluded: it is reassigned across OS sessions and
// driver reloads. Equality is structural.
type Identifier struct {
	Name              string  `json:"name"`
	Channels          int     `json:"channels"`
	DefaultSampleRate float64 `json:"default_samplerate"`
}

// IdentifierFor derives the persistent identity of a live device.
func IdentifierFor(d audio.DeviceInfo) Identifier {
	return Identifier{
		Name:              d.Name,
		Channels:          d.MaxInputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
	}
}

// IsZero reports whether no device has been identified.
func (id Identifier) IsZero() bool {
	return id == Identifier{}
}
