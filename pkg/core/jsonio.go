package core

import (
	"encoding/json"
	"io"
)

// MarshalLinkages pretty-prints linkage reports as JSON for pipelines.
func MarshalLinkages(w io.Writer, reports []Linkage) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// UnmarshalLinkages decodes linkage JSON, used for offline reporting.
func UnmarshalLinkages(r io.Reader) ([]Linkage, error) {
	var ls []Linkage
	if err := json.NewDecoder(r).Decode(&ls); err != nil {
		return nil, err
	}
	return ls, nil
}
