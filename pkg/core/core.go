package core

import (
	"github.com/dylink/dylink/internal/artifacts"
	"github.com/dylink/dylink/internal/engine"
	"github.com/dylink/dylink/internal/inspect"
	"github.com/dylink/dylink/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Library = types.Library
type Linkage = types.Linkage
type Artifact = artifacts.Artifact

// Check is the stable entrypoint for other programs: one Linkage per
// (artifact, required binary) pair matching a requested target.
func Check(cfg Config, arts []Artifact) ([]Linkage, error) {
	return engine.Check(cfg, arts)
}

// LoadArtifacts reads an artifact manifest (JSON or YAML).
func LoadArtifacts(path string) ([]Artifact, error) {
	return artifacts.LoadManifest(path)
}

// Targets returns the target triples linkage checking recognizes.
// This is exposed for convenience to avoid importing internals directly.
func Targets() []string { return inspect.Targets() }
