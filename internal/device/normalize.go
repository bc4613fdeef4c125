package device

import "strings"

// NormalizeName reduces a display name to a dedup key that is stable across
// host-API variants of the same physical device. MME truncates names at ~31
// characters, so only the first two words inside the trailing parenthetical
// are kept:
//
//	"Microphone (Sennheiser USB head"    -> "Microphone (Sennheiser USB"
//	"Microphone (Sennheiser USB headset)" -> "Microphone (Sennheiser USB"
//
// Normalization is idempotent. The result is a grouping key only, never a
// display string.
func NormalizeName(name string) string {
	normalized := strings.TrimSpace(name)

	if i := strings.LastIndex(normalized, "("); i >= 0 {
		prefix := normalized[:i+1]

		suffix := normalized[i+1:]
		suffix = strings.TrimSpace(strings.TrimSuffix(suffix, ")"))

		words := strings.Fields(suffix)
		if len(words) > 2 {
			words = words[:2]
		}

		normalized = prefix + strings.Join(words, " ")
	}

	// A parenthetical emptied above (or truncated away upstream) leaves a
	// dangling "(" that must not leak into the key.
	if strings.HasSuffix(normalized, "(") {
		normalized = strings.TrimSpace(strings.TrimRight(normalized, "("))
	}

	return normalized
}
