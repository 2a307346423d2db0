// Package cache stores linkage reports keyed by binary content so repeated
// checks of an unchanged binary skip re-inspection.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/dylink/dylink/internal/types"
)

// DB maps content-hash/target keys to the linkage computed for them.
type DB struct {
	Entries map[string]types.Linkage `json:"entries"`
}

// Key derives the cache key for a binary's content and its target triple.
func Key(content []byte, target string) string {
	return fmt.Sprintf("%016x-%s", xxhash.Sum64(content), target)
}

func defaultPath(distDir string) string {
	return filepath.Join(distDir, ".dylink-cache.json")
}

// Load reads the cache next to the dist dir. A missing or corrupt cache is
// not an error worth surfacing; callers get an empty DB either way.
func Load(distDir string) (DB, error) {
	var db DB
	b, err := os.ReadFile(defaultPath(distDir))
	if err != nil {
		return DB{Entries: map[string]types.Linkage{}}, err
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return DB{Entries: map[string]types.Linkage{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]types.Linkage{}
	}
	return db, nil
}

// Save writes the cache next to the dist dir.
func Save(distDir string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(defaultPath(distDir), b, 0644)
}
