package classify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dylink/dylink/internal/types"
)

// Homebrew opt prefixes for the ARM and Intel default installs. Non-default
// Homebrew locations are not supported.
var brewOptPrefixes = []string{"/opt/homebrew/opt/", "/usr/local/opt/"}

const defaultTap = "homebrew/core"

// homebrewLibrary builds a Library for a path under a Homebrew prefix. The
// formula name is the first path segment after the opt prefix; when the
// formula's install receipt names a source tap other than homebrew/core the
// formula is qualified as "tap/formula". The receipt is best-effort
// enrichment: if it is missing or unreadable the bare name is kept.
func (c *Classifier) homebrewLibrary(path string) types.Library {
	for _, prefix := range brewOptPrefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		formula, _, _ := strings.Cut(strings.TrimPrefix(path, prefix), "/")
		if formula == "" {
			break
		}
		receipt := filepath.Join(prefix, formula, "INSTALL_RECEIPT.json")
		if tap := tapFromReceipt(receipt); tap != "" && tap != defaultTap {
			formula = tap + "/" + formula
		}
		return types.Library{Path: path, Source: formula}
	}
	return types.Library{Path: path}
}

// tapFromReceipt reads source.tap out of a Homebrew install receipt,
// returning "" on any failure.
func tapFromReceipt(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var receipt struct {
		Source struct {
			Tap string `json:"tap"`
		} `json:"source"`
	}
	if err := json.Unmarshal(b, &receipt); err != nil {
		return ""
	}
	return receipt.Source.Tap
}
