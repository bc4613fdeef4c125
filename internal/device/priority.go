package device

import "strings"

// hostAPIPriority scores a host API family for tie-breaking between variants
// of the same physical device. WASAPI is the most reliable backend on modern
// Windows, followed by DirectSound, MME, then WDM-KS. The score is derived
// per enumeration and never persisted.
func hostAPIPriority(hostAPI string) int {
	if hostAPI == "" {
		return 0
	}
	name := strings.ToLower(hostAPI)
	switch {
	case strings.Contains(name, "wasapi"):
		return 400
	case strings.Contains(name, "directsound"):
		return 300
	case strings.Contains(name, "mme"):
		return 200
	case strings.Contains(name, "wdm-ks"), strings.Contains(name, "ks"):
		return 100
	default:
		return 50
	}
}
