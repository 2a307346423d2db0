package inspect

import (
	"debug/macho"
	"encoding/binary"
)

// Mach-O load command values carrying a dylib name. debug/macho only exposes
// a typed view of the plain load command, so the raw bytes are decoded here
// to also catch weak, re-export, lazy, and upward loads plus the binary's
// own LC_ID_DYLIB entry.
const (
	lcLoadDylib       = 0x0c
	lcIDDylib         = 0x0d
	lcLazyLoadDylib   = 0x20
	lcLoadWeakDylib   = 0x80000018
	lcReexportDylib   = 0x8000001f
	lcLoadUpwardDylib = 0x80000023
)

// inspectMachO lists the dylibs referenced by the Mach-O binary at path.
// Inspection may be attempted speculatively, so a file that does not parse
// as Mach-O (or as a universal binary) yields an empty list, not an error.
func inspectMachO(path string) ([]string, error) {
	f, err := macho.Open(path)
	if err == nil {
		defer f.Close()
		return dylibNames(f), nil
	}

	// Universal binaries carry one Mach-O image per architecture; merge them.
	ff, err := macho.OpenFat(path)
	if err != nil {
		return nil, nil
	}
	defer ff.Close()

	seen := map[string]bool{}
	var libs []string
	for _, arch := range ff.Arches {
		for _, name := range dylibNames(arch.File) {
			if seen[name] {
				continue
			}
			seen[name] = true
			libs = append(libs, name)
		}
	}
	return libs, nil
}

func dylibNames(f *macho.File) []string {
	var libs []string
	for _, load := range f.Loads {
		raw := load.Raw()
		if len(raw) < 12 {
			continue
		}
		switch f.ByteOrder.Uint32(raw[0:4]) {
		case lcLoadDylib, lcIDDylib, lcLazyLoadDylib, lcLoadWeakDylib, lcReexportDylib, lcLoadUpwardDylib:
			if name, ok := dylibName(raw, f.ByteOrder); ok {
				libs = append(libs, name)
			}
		}
	}
	return libs
}

// dylibName extracts the NUL-terminated name string a dylib load command
// points at. The name offset is relative to the start of the command.
func dylibName(raw []byte, bo binary.ByteOrder) (string, bool) {
	off := bo.Uint32(raw[8:12])
	if uint64(off) >= uint64(len(raw)) {
		return "", false
	}
	name := raw[off:]
	for i, b := range name {
		if b == 0 {
			return string(name[:i]), true
		}
	}
	return string(name), true
}
