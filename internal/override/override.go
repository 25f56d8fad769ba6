// =============================================================================
// Catalog Sync - Override Maps
// =============================================================================
//
// Overrides are locally curated values recorded by the in-store tablet tool
// as flat JSON objects, one file per center and field:
//
//   overrides/ean/<slug>.json      { "NumeroArticulo": "CodigoEAN", ... }
//   overrides/images/<slug>.json   { "NumeroArticulo": "ImagenURL", ... }
//
// A present, non-empty override is ground truth for its field and beats any
// ingested or carried-forward value. An empty value means "no opinion" and
// never blanks an existing value. Absent files are empty maps; malformed
// files degrade to empty maps with a warning, never a failed run.
//
// =============================================================================

package override

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mallorcart/catalog-sync/internal/catalog"
)

// Map is one center's overrides for one field: article id → value.
type Map map[string]string

// Apply resolves the override against a fallback value. Non-empty override
// wins; an empty or absent override keeps the fallback.
func (m Map) Apply(articleID, fallback string) string {
	if v := m[articleID]; v != "" {
		return v
	}
	return fallback
}

// Set bundles every override map for a run, keyed by center slug.
type Set struct {
	EAN    map[string]Map
	Images map[string]Map
}

// ForCenter returns the (possibly nil) maps for one center. Nil maps are
// safe: lookups on a nil Map return the fallback.
func (s *Set) ForCenter(slug string) (ean, images Map) {
	if s == nil {
		return nil, nil
	}
	return s.EAN[slug], s.Images[slug]
}

// LoadDir reads every center's override files from the overrides root.
func LoadDir(dir string, centers []catalog.Center, log *slog.Logger) *Set {
	if log == nil {
		log = slog.Default()
	}
	set := &Set{
		EAN:    make(map[string]Map, len(centers)),
		Images: make(map[string]Map, len(centers)),
	}
	for _, c := range centers {
		set.EAN[c.Slug] = Load(filepath.Join(dir, "ean", c.Slug+".json"), log)
		set.Images[c.Slug] = Load(filepath.Join(dir, "images", c.Slug+".json"), log)
	}
	return set
}

// Load reads one override file. A missing file is an empty map; anything
// else that goes wrong is logged as a warning and also yields an empty map.
func Load(path string, log *slog.Logger) Map {
	if log == nil {
		log = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("override file unreadable, ignoring", "path", path, "error", err)
		}
		return Map{}
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		log.Warn("override file malformed, ignoring", "path", path, "error", err)
		return Map{}
	}
	if m == nil {
		m = Map{}
	}
	return m
}
