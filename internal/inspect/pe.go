package inspect

import (
	"debug/pe"
	"fmt"
	"strings"
)

// inspectPE lists the modules imported by the Windows binary at path. Unlike
// Mach-O, a Windows target claiming a non-PE file is an error: there is no
// speculative PE inspection.
func inspectPE(path string) ([]string, error) {
	f, err := pe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a PE image", ErrUnsupportedBinary, path)
	}
	defer f.Close()

	// debug/pe exposes the import table symbol-by-symbol; the imported
	// module list is the deduplicated set of DLLs those symbols come from.
	syms, err := f.ImportedSymbols()
	if err != nil {
		return nil, err
	}
	return dllNames(syms), nil
}

// dllNames collapses "Symbol:module.dll" entries to the unique module names,
// preserving first-seen order.
func dllNames(symbols []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range symbols {
		i := strings.LastIndex(s, ":")
		if i < 0 || i+1 == len(s) {
			continue
		}
		dll := s[i+1:]
		if seen[dll] {
			continue
		}
		seen[dll] = true
		out = append(out, dll)
	}
	return out
}
