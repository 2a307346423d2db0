// Package classify buckets raw library paths by provenance: operating
// system, Homebrew, unmanaged public prefix, macOS framework, or other.
// Package-database lookups enrich the result with the owning package where
// the host allows it, but they are advisory and never fail a classification.
package classify

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dylink/dylink/internal/types"
)

// Classifier assigns one provenance bucket per library path. The host OS,
// filesystem canonicalization, and the package-database lookup are fields so
// tests can substitute them.
type Classifier struct {
	hostOS        string
	canonicalize  func(path string) (string, error)
	searchPackage func(path string) (string, error)
}

// New returns a Classifier for the current host.
func New() *Classifier {
	return NewWithHost(runtime.GOOS)
}

// NewWithHost returns a Classifier that believes it runs on hostOS.
func NewWithHost(hostOS string) *Classifier {
	return &Classifier{
		hostOS:        hostOS,
		canonicalize:  filepath.EvalSymlinks,
		searchPackage: dpkgSearch,
	}
}

// rule pairs a path predicate with the handler that files the library into
// its bucket. Rules are evaluated top to bottom and the first match wins;
// the ordering is load-bearing (e.g. /usr/lib is checked before /usr/local
// never sees it, and only the /usr/local branch canonicalizes).
type rule struct {
	match func(path string) bool
	apply func(c *Classifier, ln *types.Linkage, path string) error
}

var rules = []rule{
	{match: prefix("/opt/homebrew"), apply: intoHomebrew},
	{match: anyPrefix("/usr/lib", "/lib"), apply: intoSystem},
	{match: anyPrefix("/System/Library/Frameworks", "/Library/Frameworks"), apply: intoFrameworks},
	{match: prefix("/usr/local"), apply: intoUsrLocal},
	{match: func(string) bool { return true }, apply: intoOther},
}

// Classify files one raw library path into exactly one bucket of ln.
func (c *Classifier) Classify(ln *types.Linkage, path string) error {
	for _, r := range rules {
		if r.match(path) {
			return r.apply(c, ln, path)
		}
	}
	return nil // unreachable, the final rule matches everything
}

func prefix(p string) func(string) bool {
	return func(path string) bool { return strings.HasPrefix(path, p) }
}

func anyPrefix(prefixes ...string) func(string) bool {
	return func(path string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}

func intoHomebrew(c *Classifier, ln *types.Linkage, path string) error {
	ln.AddHomebrew(c.homebrewLibrary(path))
	return nil
}

func intoSystem(c *Classifier, ln *types.Linkage, path string) error {
	ln.AddSystem(c.osPackageLibrary(path))
	return nil
}

func intoFrameworks(_ *Classifier, ln *types.Linkage, path string) error {
	ln.AddFramework(types.Library{Path: path})
	return nil
}

// intoUsrLocal disambiguates /usr/local: Homebrew on Intel macs installs
// into /usr/local/Cellar and links out of it, so the canonical path decides
// between the homebrew and public_unmanaged buckets. This is the only rule
// that canonicalizes; the others match the literal path.
func intoUsrLocal(c *Classifier, ln *types.Linkage, path string) error {
	canon, err := c.canonicalize(path)
	if err != nil {
		return err
	}
	if strings.HasPrefix(canon, "/usr/local/Cellar") {
		ln.AddHomebrew(c.homebrewLibrary(path))
	} else {
		ln.AddPublicUnmanaged(types.Library{Path: path})
	}
	return nil
}

func intoOther(c *Classifier, ln *types.Linkage, path string) error {
	ln.AddOther(c.osPackageLibrary(path))
	return nil
}
