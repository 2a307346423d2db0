// Package engine drives the linkage check: it walks the requested targets
// and artifacts, locates each required binary under the dist dir, and folds
// the inspector's raw library list through the classifier into one Linkage
// report per binary.
package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/dylink/dylink/internal/artifacts"
	"github.com/dylink/dylink/internal/cache"
	"github.com/dylink/dylink/internal/classify"
	"github.com/dylink/dylink/internal/inspect"
	"github.com/dylink/dylink/internal/types"
)

// Config controls a linkage check run.
type Config struct {
	// Targets are the triples to check; artifacts not built for a requested
	// target are skipped with a diagnostic.
	Targets []string
	// DistDir is the distribution directory holding one
	// "<artifact-id>-<target>" subdirectory per built artifact.
	DistDir string
	// IncludeGlobs/ExcludeGlobs are comma-separated doublestar patterns
	// filtering the logical binary names to check. Empty include means all.
	IncludeGlobs string
	ExcludeGlobs string
	// NoCache disables reuse of reports for binaries whose content has not
	// changed since the last run.
	NoCache bool
	// Diagnostics receives non-fatal skip messages; defaults to os.Stderr.
	Diagnostics io.Writer

	// Inspector and Classifier default to host-configured instances.
	Inspector  *inspect.Inspector
	Classifier *classify.Classifier
}

func (cfg *Config) fill() {
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = os.Stderr
	}
	if cfg.Inspector == nil {
		cfg.Inspector = inspect.New()
	}
	if cfg.Classifier == nil {
		cfg.Classifier = classify.New()
	}
}

// Check computes one Linkage per (artifact, required binary) pair matching a
// requested target, in target order then artifact order then binary-name
// order. A missing binary or a target with no artifacts is a diagnostic, not
// an error; a failed inspection aborts the run and the partial result is
// discarded.
func Check(cfg Config, arts []artifacts.Artifact) ([]types.Linkage, error) {
	cfg.fill()

	db := cache.DB{Entries: map[string]types.Linkage{}}
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.DistDir)
	}
	dirty := false

	var reports []types.Linkage
	for _, target := range cfg.Targets {
		matching := artifacts.ForTarget(arts, target)
		if len(matching) == 0 {
			fmt.Fprintf(cfg.Diagnostics, "No matching artifact for target %s\n", target)
			continue
		}
		for _, art := range matching {
			dir := filepath.Join(cfg.DistDir, fmt.Sprintf("%s-%s", art.ID, target))
			for _, name := range art.BinaryNames() {
				if !selected(name, cfg.IncludeGlobs, cfg.ExcludeGlobs) {
					continue
				}
				binPath := filepath.Join(dir, art.RequiredBinaries[name])
				if _, err := os.Stat(binPath); err != nil {
					fmt.Fprintf(cfg.Diagnostics, "Binary %s missing; skipping check\n", binPath)
					continue
				}

				if !cfg.NoCache {
					content, err := os.ReadFile(binPath)
					if err != nil {
						return nil, err
					}
					key := cache.Key(content, target)
					if ln, ok := db.Entries[key]; ok {
						// The key is content-based, so two distinct binaries
						// with identical bytes share an entry. The linkage is
						// the same either way; the identity is not.
						ln.Binary = filepath.Base(binPath)
						ln.Target = target
						reports = append(reports, ln)
						continue
					}
					ln, err := Determine(cfg.Inspector, cfg.Classifier, binPath, target)
					if err != nil {
						return nil, err
					}
					db.Entries[key] = ln
					dirty = true
					reports = append(reports, ln)
					continue
				}

				ln, err := Determine(cfg.Inspector, cfg.Classifier, binPath, target)
				if err != nil {
					return nil, err
				}
				reports = append(reports, ln)
			}
		}
	}

	if dirty {
		_ = cache.Save(cfg.DistDir, db)
	}
	return reports, nil
}

// Determine computes the classified linkage of a single binary. It either
// fully succeeds, returning a report with every linked library bucketed, or
// fully fails with no partial report.
func Determine(insp *inspect.Inspector, cls *classify.Classifier, path, target string) (types.Linkage, error) {
	libs, err := insp.Inspect(path, target)
	if err != nil {
		return types.Linkage{}, err
	}
	ln := types.Linkage{Binary: filepath.Base(path), Target: target}
	for _, lib := range libs {
		if err := cls.Classify(&ln, lib); err != nil {
			return types.Linkage{}, err
		}
	}
	return ln, nil
}

// selected applies the include/exclude globs to a logical binary name.
func selected(name, include, exclude string) bool {
	for _, g := range splitGlobs(exclude) {
		if ok, _ := doublestar.Match(g, name); ok {
			return false
		}
	}
	globs := splitGlobs(include)
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}

func splitGlobs(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
