package device

import (
	"testing"

	"github.com/vocap/vocap/internal/audio"
)

func TestResolveSurvivesIndexReshuffle(t *testing.T) {
	saved := Identifier{Name: "Microphone (Sennheiser USB headset)", Channels: 2, DefaultSampleRate: 44100}

	// Same hardware, indices reassigned after a driver reload.
	catalog := newTestCatalog([]audio.DeviceInfo{
		{Index: 9, Name: "Webcam Mic (Logitech)", MaxInputChannels: 1, DefaultSampleRate: 32000, HostAPI: "Windows WASAPI"},
		{Index: 14, Name: "Microphone (Sennheiser USB headset)", MaxInputChannels: 2, DefaultSampleRate: 44100, HostAPI: "Windows WASAPI"},
	})

	d, ok := NewResolver(catalog).Resolve(saved)
	if !ok {
		t.Fatal("expected saved identifier to resolve")
	}
	if d.Index != 14 {
		t.Errorf("resolved wrong device: %+v", d)
	}
}

func TestResolveFallsBackToNormalizedName(t *testing.T) {
	// The saved identifier came from the MME variant (truncated name,
	// 1 channel); the machine now exposes only the WASAPI variant.
	saved := Identifier{Name: "Microphone (Sennheiser USB head", Channels: 1, DefaultSampleRate: 44100}

	catalog := newTestCatalog([]audio.DeviceInfo{
		{Index: 3, Name: "Microphone (Sennheiser USB headset)", MaxInputChannels: 2, DefaultSampleRate: 48000, HostAPI: "Windows WASAPI"},
		{Index: 4, Name: "Webcam Mic (Logitech)", MaxInputChannels: 1, DefaultSampleRate: 32000, HostAPI: "Windows WASAPI"},
	})

	d, ok := NewResolver(catalog).Resolve(saved)
	if !ok {
		t.Fatal("expected normalized-name fallback to resolve")
	}
	if d.Index != 3 {
		t.Errorf("resolved wrong device: %+v", d)
	}
}

func TestResolveFallbackLandsOnBestVariant(t *testing.T) {
	saved := Identifier{Name: "Microphone (Blue Yeti something)", Channels: 4, DefaultSampleRate: 48000}

	// Both live endpoints normalize to the saved device's name. The variant
	// ordering (channels first) must leave the saved identifier pointing at
	// index 2 regardless of which endpoint enumerates first.
	catalog := newTestCatalog([]audio.DeviceInfo{
		{Index: 1, Name: "Microphone (Blue Yeti)", MaxInputChannels: 1, DefaultSampleRate: 48000, HostAPI: "Windows WASAPI"},
		{Index: 2, Name: "Microphone (Blue Yeti Pro)", MaxInputChannels: 2, DefaultSampleRate: 44100, HostAPI: "MME"},
	})

	d, ok := NewResolver(catalog).Resolve(saved)
	if !ok {
		t.Fatal("expected fallback to resolve")
	}
	if d.Index != 2 {
		t.Errorf("expected the higher-channel candidate, got %+v", d)
	}
}

func TestResolveMissIsNotAnError(t *testing.T) {
	saved := Identifier{Name: "Microphone (Unplugged Device)", Channels: 2, DefaultSampleRate: 44100}

	catalog := newTestCatalog([]audio.DeviceInfo{
		{Index: 1, Name: "Webcam Mic (Logitech)", MaxInputChannels: 1, DefaultSampleRate: 32000, HostAPI: "Windows WASAPI"},
	})

	if d, ok := NewResolver(catalog).Resolve(saved); ok {
		t.Errorf("expected a miss, got %+v", d)
	}
}
