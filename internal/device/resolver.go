package device

import "github.com/vocap/vocap/internal/audio"

// Resolver finds the best live device for a persisted Identifier.
type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve scans the deduplicated catalog for an exact structural match first.
// Failing that, it collects candidates whose raw or normalized name matches
// the target and keeps the best one by the catalog's variant ordering. A miss
// returns ok=false; device-not-found is a recoverable condition, callers fall
// back to the system default.
func (r *Resolver) Resolve(id Identifier) (audio.DeviceInfo, bool) {
	devices, err := r.catalog.Enumerate()
	if err != nil {
		return audio.DeviceInfo{}, false
	}

	for _, d := range devices {
		if IdentifierFor(d) == id {
			return d, true
		}
	}

	target := NormalizeName(id.Name)
	var match audio.DeviceInfo
	found := false
	for _, d := range devices {
		if d.Name != id.Name && NormalizeName(d.Name) != target {
			continue
		}
		if !found || better(d, match) {
			match = d
			found = true
		}
	}
	return match, found
}
