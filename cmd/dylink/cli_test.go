package dylink

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs the binary as a subprocess to avoid os.Exit in-process.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "."}, args...)...)
	cmd.Dir = filepath.Clean(filepath.Join("..", ".."))
	cmd.Env = append(os.Environ(), "CI=true", "XDG_CONFIG_HOME="+t.TempDir())
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err = cmd.Run()
	return out.String(), errb.String(), err
}

func TestCLI_CheckFromJSON(t *testing.T) {
	reports := `[
  {
    "binary": "app",
    "target": "x86_64-apple-darwin",
    "system": [{"path": "/usr/lib/libSystem.B.dylib"}],
    "homebrew": [{"path": "/opt/homebrew/opt/zlib/lib/libz.1.dylib", "source": "zlib"}],
    "public_unmanaged": null,
    "frameworks": null,
    "other": null
  }
]`
	p := filepath.Join(t.TempDir(), "reports.json")
	if err := os.WriteFile(p, []byte(reports), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCLI(t, "check", "--from-json", p, "--json", "--no-color")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, stderr)
	}

	var arr []map[string]any
	if err := json.Unmarshal([]byte(stdout), &arr); err != nil {
		t.Fatalf("json unmarshal: %v\n%s", err, stdout)
	}
	if len(arr) != 1 || arr[0]["binary"] != "app" {
		t.Fatalf("unexpected JSON output: %s", stdout)
	}

	// the human table goes to stderr, leaving stdout machine-clean
	if !strings.Contains(stderr, "app (x86_64-apple-darwin):") {
		t.Fatalf("table header missing from stderr:\n%s", stderr)
	}
	if !strings.Contains(stderr, "libz.1.dylib (zlib)") {
		t.Fatalf("homebrew row missing from stderr:\n%s", stderr)
	}
}

func TestCLI_CheckNoTargets(t *testing.T) {
	_, stderr, err := runCLI(t, "check", "--dist-dir", t.TempDir())
	if err == nil {
		t.Fatal("expected a failure when no targets are requested")
	}
	if !strings.Contains(stderr, "no targets requested") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestCLI_Targets(t *testing.T) {
	stdout, stderr, err := runCLI(t, "targets")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, stderr)
	}
	for _, want := range []string{"x86_64-apple-darwin", "aarch64-unknown-linux-musl", "x86_64-pc-windows-msvc"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("targets output missing %s:\n%s", want, stdout)
		}
	}
}

func TestPickString(t *testing.T) {
	local, global := "local", "global"
	if got := pickString("cli", &local, &global); got != "cli" {
		t.Fatalf("got %q", got)
	}
	if got := pickString("", &local, &global); got != "local" {
		t.Fatalf("got %q", got)
	}
	if got := pickString("", nil, &global); got != "global" {
		t.Fatalf("got %q", got)
	}
	empty := ""
	if got := pickString("", &empty, nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestPickBool(t *testing.T) {
	yes, no := true, false
	if !pickBool(true, &no, &no) {
		t.Fatal("cli flag should win")
	}
	if !pickBool(false, &yes, nil) {
		t.Fatal("local should win over unset")
	}
	if !pickBool(false, nil, &yes) {
		t.Fatal("global should apply when nothing else is set")
	}
	if pickBool(false, &no, &no) {
		t.Fatal("all-false should stay false")
	}
	// A set local value is an answer, not a fallthrough: explicit local
	// false beats global true.
	if pickBool(false, &no, &yes) {
		t.Fatal("explicit local false should override global true")
	}
}
