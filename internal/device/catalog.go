package device

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vocap/vocap/internal/audio"
)

// Virtual processing endpoints that often return silence instead of real
// microphone audio.
var problemPatterns = []string{
	"stereo mix",
	"system virtual",
	"loopback",
	"what u hear",
	"wave out mix",
}

// Raw per-channel endpoints of a multi-channel WDM-KS device, e.g.
// "Microphone 1 (Device)". The aggregate endpoint is the usable one.
var perChannelEndpoint = regexp.MustCompile(`^microphone \d+ \(`)

func isProblematicEndpoint(name string) bool {
	lower := strings.ToLower(name)

	if strings.HasPrefix(lower, "input (") {
		return true
	}
	for _, p := range problemPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return perChannelEndpoint.MatchString(lower)
}

// better reports whether a beats b as the variant to keep for one physical
// device: more input channels first (a 1-channel variant of a device that
// also exposes a 3-channel variant is presumed degraded), then host-API
// priority, then default sample rate. The resolver fallback ranks candidates
// with the same ordering.
func better(a, b audio.DeviceInfo) bool {
	if a.MaxInputChannels != b.MaxInputChannels {
		return a.MaxInputChannels > b.MaxInputChannels
	}
	ap, bp := hostAPIPriority(a.HostAPI), hostAPIPriority(b.HostAPI)
	if ap != bp {
		return ap > bp
	}
	return a.DefaultSampleRate > b.DefaultSampleRate
}

// Catalog enumerates input devices through the audio subsystem and collapses
// them into one canonical, deduplicated set.
type Catalog struct {
	host audio.Host
	log  zerolog.Logger
}

func NewCatalog(host audio.Host, log zerolog.Logger) *Catalog {
	return &Catalog{host: host, log: log}
}

// Enumerate returns one device per physical device, in first-seen order, each
// carrying its original display name. Zero-input and problematic endpoints
// are dropped; among variants sharing a normalized name, the best one wins.
func (c *Catalog) Enumerate() ([]audio.DeviceInfo, error) {
	devices, err := c.host.Devices()
	if err != nil {
		return nil, err
	}

	best := make(map[string]audio.DeviceInfo)
	var order []string

	for _, d := range devices {
		if d.MaxInputChannels <= 0 {
			continue
		}
		if isProblematicEndpoint(d.Name) {
			c.log.Debug().Str("device", d.Name).Msg("Skipping problematic endpoint")
			continue
		}

		key := NormalizeName(d.Name)
		current, seen := best[key]
		if !seen {
			best[key] = d
			order = append(order, key)
			continue
		}
		if better(d, current) {
			best[key] = d
		}
	}

	result := make([]audio.DeviceInfo, 0, len(order))
	for _, key := range order {
		result = append(result, best[key])
	}
	return result, nil
}

// ByIndex looks a device up by its session-local index. A stale index or one
// that is not an input device yields ok=false, not an error.
func (c *Catalog) ByIndex(index int) (audio.DeviceInfo, bool) {
	devices, err := c.host.Devices()
	if err != nil {
		return audio.DeviceInfo{}, false
	}
	for _, d := range devices {
		if d.Index == index && d.MaxInputChannels > 0 {
			return d, true
		}
	}
	return audio.DeviceInfo{}, false
}

// IsValid reports whether the index appears in the current deduplicated set.
func (c *Catalog) IsValid(index int) bool {
	devices, err := c.Enumerate()
	if err != nil {
		return false
	}
	for _, d := range devices {
		if d.Index == index {
			return true
		}
	}
	return false
}

// Variants returns every input-capable endpoint grouped by raw display name,
// without filtering or dedup. Diagnostic view for the device listing tool.
func (c *Catalog) Variants() (map[string][]audio.DeviceInfo, error) {
	devices, err := c.host.Devices()
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]audio.DeviceInfo)
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			groups[d.Name] = append(groups[d.Name], d)
		}
	}
	return groups, nil
}

// DefaultInputDevice exposes the subsystem's default input, the fallback when
// a persisted identifier no longer resolves.
func (c *Catalog) DefaultInputDevice() (audio.DeviceInfo, error) {
	return c.host.DefaultInputDevice()
}
