// Package inspect extracts the raw dynamic-library references of a compiled
// binary. The binary format is selected by the target triple the binary was
// built for: Mach-O and PE are parsed in-process and work on any host, while
// ELF linkage is resolved through ldd and requires a Linux host.
package inspect

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrUnsupportedBinary means the target triple is not recognized or the
	// file on disk is not the format the triple implies.
	ErrUnsupportedBinary = errors.New("unsupported binary for linkage inspection")
	// ErrWrongHostOS means the inspection method for the target cannot run
	// on the current host (ELF inspection needs a Linux host). Distinct from
	// ErrUnsupportedBinary so callers can tell "impossible here" from "not a
	// real binary".
	ErrWrongHostOS = errors.New("linkage inspection not supported on this host OS")
)

var (
	darwinTargets = []string{
		"i686-apple-darwin",
		"x86_64-apple-darwin",
		"aarch64-apple-darwin",
	}
	linuxTargets = []string{
		"i686-unknown-linux-gnu",
		"x86_64-unknown-linux-gnu",
		"aarch64-unknown-linux-gnu",
		"i686-unknown-linux-musl",
		"x86_64-unknown-linux-musl",
		"aarch64-unknown-linux-musl",
	}
	windowsTargets = []string{
		"i686-pc-windows-msvc",
		"x86_64-pc-windows-msvc",
		"aarch64-pc-windows-msvc",
	}
)

// Targets returns every target triple the inspector recognizes.
func Targets() []string {
	out := make([]string, 0, len(darwinTargets)+len(linuxTargets)+len(windowsTargets))
	out = append(out, darwinTargets...)
	out = append(out, linuxTargets...)
	out = append(out, windowsTargets...)
	return out
}

// SupportedTarget reports whether the triple belongs to a recognized family.
func SupportedTarget(target string) bool {
	return contains(darwinTargets, target) ||
		contains(linuxTargets, target) ||
		contains(windowsTargets, target)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Inspector reads the dynamically linked libraries out of binaries. The host
// OS and the ldd runner are fields rather than ambient reads so tests can
// substitute them.
type Inspector struct {
	hostOS string
	runLDD func(path string) ([]byte, error)
}

// New returns an Inspector for the current host.
func New() *Inspector {
	return NewWithHost(runtime.GOOS)
}

// NewWithHost returns an Inspector that believes it runs on hostOS.
func NewWithHost(hostOS string) *Inspector {
	return &Inspector{hostOS: hostOS, runLDD: runLDD}
}

// Inspect returns the raw linked-library paths of the binary at path, using
// the format implied by target. An unrecognized target fails with
// ErrUnsupportedBinary before the file is touched.
func (in *Inspector) Inspect(path, target string) ([]string, error) {
	switch {
	case contains(darwinTargets, target):
		return inspectMachO(path)
	case contains(linuxTargets, target):
		return in.inspectELF(path)
	case contains(windowsTargets, target):
		return inspectPE(path)
	default:
		return nil, fmt.Errorf("%w: unrecognized target %q", ErrUnsupportedBinary, target)
	}
}
