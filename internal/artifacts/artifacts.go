// Package artifacts describes the built outputs whose binaries get their
// linkage checked. Artifacts are produced by an external build pipeline;
// this package only loads their manifest and filters them by target.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Artifact is one built output: an identifier, the target triples it was
// built for, and a mapping of logical binary names to on-disk file names.
type Artifact struct {
	ID               string            `json:"id" yaml:"id"`
	TargetTriples    []string          `json:"target_triples" yaml:"target_triples"`
	RequiredBinaries map[string]string `json:"required_binaries" yaml:"required_binaries"`
}

// SupportsTarget reports whether the artifact was built for target.
func (a Artifact) SupportsTarget(target string) bool {
	for _, t := range a.TargetTriples {
		if t == target {
			return true
		}
	}
	return false
}

// BinaryNames returns the logical binary names in stable order. Manifest
// maps have no order of their own and the check loop wants deterministic
// iteration.
func (a Artifact) BinaryNames() []string {
	names := make([]string, 0, len(a.RequiredBinaries))
	for name := range a.RequiredBinaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForTarget filters the artifact list to those declaring target.
func ForTarget(list []Artifact, target string) []Artifact {
	var out []Artifact
	for _, a := range list {
		if a.SupportsTarget(target) {
			out = append(out, a)
		}
	}
	return out
}

// Manifest is the on-disk shape of the artifact list.
type Manifest struct {
	Artifacts []Artifact `json:"artifacts" yaml:"artifacts"`
}

// LoadManifest reads an artifact manifest from a JSON or YAML file, decided
// by extension.
func LoadManifest(path string) ([]Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(b, &m)
	case ".yml", ".yaml":
		err = yaml.Unmarshal(b, &m)
	default:
		return nil, fmt.Errorf("unrecognized manifest format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m.Artifacts, nil
}
