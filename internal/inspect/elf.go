package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// inspectELF resolves the shared-library dependencies of a Linux binary by
// running ldd against it. ldd resolves through the real dynamic loader, so
// this only works when the host actually is Linux; anything else fails with
// ErrWrongHostOS before a process is spawned.
func (in *Inspector) inspectELF(path string) ([]string, error) {
	if in.hostOS != "linux" {
		return nil, fmt.Errorf("%w: cannot resolve ELF linkage on %s", ErrWrongHostOS, in.hostOS)
	}

	out, err := in.runLDD(path)
	if err != nil {
		return nil, err
	}
	return parseLDD(out)
}

// runLDD captures ldd's stdout. The exit status is ignored: arm64 glibc ldd
// has been observed to exit nonzero on binaries with no dynamic linkage at
// all (e.g. musl-static) while x86-64 ldd exits zero for the same input, so
// only the output is trusted.
func runLDD(path string) ([]byte, error) {
	cmd := exec.Command("ldd", path)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
	}
	return stdout.Bytes(), nil
}

// parseLDD extracts resolved library paths from ldd's line-oriented output.
// Symlinks are resolved so the returned paths name the real underlying
// files, which makes mapping them to packages reliable later.
func parseLDD(out []byte) ([]string, error) {
	var libs []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		line = strings.TrimSpace(line)

		// No dynamic linkage at all; nothing below this line is useful.
		if strings.HasPrefix(line, "not a dynamic executable") || strings.HasPrefix(line, "statically linked") {
			break
		}

		// Kernel-provided virtual shared object, not a real file.
		if strings.HasPrefix(line, "linux-vdso") {
			continue
		}

		// Format: libname.so.1 => /path/to/libname.so.1 (address)
		_, rest, ok := strings.Cut(line, " => ")
		if !ok {
			continue
		}
		lib, _, _ := strings.Cut(rest, " ")
		if lib == "" {
			continue
		}
		real, err := filepath.EvalSymlinks(lib)
		if err != nil {
			return nil, err
		}
		libs = append(libs, real)
	}
	return libs, nil
}
