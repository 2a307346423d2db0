package types

import "sort"

// Library is a single dynamic dependency of a binary. Identity is the path:
// two libraries with the same path are the same dependency even when one of
// them is missing its owning package (lookups are best-effort).
type Library struct {
	// Path is the absolute filesystem path (or platform identifier, like a
	// bare DLL name on Windows) as reported by the binary's metadata.
	Path string `json:"path"`
	// Source is the package or Homebrew formula that owns the path, empty
	// when unknown or unowned.
	Source string `json:"source,omitempty"`
}

// Display renders the library for humans: "path (source)" when the owning
// package is known, bare path otherwise.
func (l Library) Display() string {
	if l.Source != "" {
		return l.Path + " (" + l.Source + ")"
	}
	return l.Path
}

// Linkage is the provenance-classified dependency report for one binary on
// one target platform. The five buckets partition every library the binary
// links against; each bucket is deduplicated by path and kept sorted so
// serialized output is stable.
type Linkage struct {
	Binary string `json:"binary,omitempty"`
	Target string `json:"target,omitempty"`

	System          []Library `json:"system"`
	Homebrew        []Library `json:"homebrew"`
	PublicUnmanaged []Library `json:"public_unmanaged"`
	Frameworks      []Library `json:"frameworks"`
	Other           []Library `json:"other"`
}

// AddSystem records a library owned by the operating system.
func (ln *Linkage) AddSystem(lib Library) { ln.System = insert(ln.System, lib) }

// AddHomebrew records a library owned by a Homebrew formula.
func (ln *Linkage) AddHomebrew(lib Library) { ln.Homebrew = insert(ln.Homebrew, lib) }

// AddPublicUnmanaged records a hand-installed library under a public prefix.
func (ln *Linkage) AddPublicUnmanaged(lib Library) {
	ln.PublicUnmanaged = insert(ln.PublicUnmanaged, lib)
}

// AddFramework records a macOS framework dependency.
func (ln *Linkage) AddFramework(lib Library) { ln.Frameworks = insert(ln.Frameworks, lib) }

// AddOther records a library with no recognized provenance.
func (ln *Linkage) AddOther(lib Library) { ln.Other = insert(ln.Other, lib) }

// Libraries returns every library across all five buckets.
func (ln *Linkage) Libraries() []Library {
	var out []Library
	out = append(out, ln.System...)
	out = append(out, ln.Homebrew...)
	out = append(out, ln.PublicUnmanaged...)
	out = append(out, ln.Frameworks...)
	out = append(out, ln.Other...)
	return out
}

// insert adds lib to the bucket unless a library with the same path is
// already present, keeping the bucket sorted by path.
func insert(bucket []Library, lib Library) []Library {
	i := sort.Search(len(bucket), func(i int) bool { return bucket[i].Path >= lib.Path })
	if i < len(bucket) && bucket[i].Path == lib.Path {
		return bucket
	}
	bucket = append(bucket, Library{})
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = lib
	return bucket
}
