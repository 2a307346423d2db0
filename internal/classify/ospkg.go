package classify

import (
	"os/exec"
	"strings"

	"github.com/dylink/dylink/internal/types"
)

// osPackageLibrary asks the local package database which package owns the
// path. The lookup only exists on Linux hosts; elsewhere, and on any lookup
// failure, the library is recorded with no owning package. This is a
// tool-availability constraint, not a classification failure.
func (c *Classifier) osPackageLibrary(path string) types.Library {
	if c.hostOS != "linux" {
		return types.Library{Path: path}
	}
	out, err := c.searchPackage(path)
	if err != nil {
		// Missing tool, or no package owns the file. Advisory either way.
		return types.Library{Path: path}
	}
	pkg, _, _ := strings.Cut(out, ":")
	return types.Library{Path: path, Source: pkg}
}

// dpkgSearch runs `dpkg --search` against the path. The first colon-delimited
// field of its output is the owning package.
func dpkgSearch(path string) (string, error) {
	out, err := exec.Command("dpkg", "--search", path).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
