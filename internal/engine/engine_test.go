package engine

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dylink/dylink/internal/artifacts"
	"github.com/dylink/dylink/internal/classify"
	"github.com/dylink/dylink/internal/inspect"
	"github.com/dylink/dylink/internal/types"
)

const testTarget = "x86_64-apple-darwin"

// machoLinking builds a minimal 64-bit Mach-O executable that load-links the
// given dylib paths, enough for the inspector to read them back out.
func machoLinking(dylibs ...string) []byte {
	const lcLoadDylib = 0x0c
	le := binary.LittleEndian
	var loads bytes.Buffer
	for _, d := range dylibs {
		name := append([]byte(d), 0)
		pad := (8 - (24+len(name))%8) % 8
		var hdr [24]byte
		le.PutUint32(hdr[0:4], lcLoadDylib)
		le.PutUint32(hdr[4:8], uint32(24+len(name)+pad))
		le.PutUint32(hdr[8:12], 24)
		loads.Write(hdr[:])
		loads.Write(name)
		loads.Write(make([]byte, pad))
	}
	var buf bytes.Buffer
	var fh [32]byte
	le.PutUint32(fh[0:4], macho.Magic64)
	le.PutUint32(fh[4:8], uint32(macho.CpuAmd64))
	le.PutUint32(fh[8:12], 3)
	le.PutUint32(fh[12:16], uint32(macho.TypeExec))
	le.PutUint32(fh[16:20], uint32(len(dylibs)))
	le.PutUint32(fh[20:24], uint32(loads.Len()))
	buf.Write(fh[:])
	buf.Write(loads.Bytes())
	return buf.Bytes()
}

func darwinConfig(distDir string, diag *bytes.Buffer) Config {
	return Config{
		Targets:     []string{testTarget},
		DistDir:     distDir,
		Diagnostics: diag,
		Inspector:   inspect.New(),
		Classifier:  classify.NewWithHost("darwin"),
	}
}

// layOut writes one artifact directory with the given binaries under distDir.
func layOut(t *testing.T, distDir, artifactID string, binaries map[string][]byte) artifacts.Artifact {
	t.Helper()
	dir := filepath.Join(distDir, artifactID+"-"+testTarget)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	art := artifacts.Artifact{
		ID:               artifactID,
		TargetTriples:    []string{testTarget},
		RequiredBinaries: map[string]string{},
	}
	for name, content := range binaries {
		art.RequiredBinaries[name] = name
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return art
}

func TestCheck_ClassifiesBinaryLinkage(t *testing.T) {
	distDir := t.TempDir()
	bin := machoLinking(
		"/usr/lib/libSystem.B.dylib",
		"/opt/homebrew/opt/zlib/lib/libz.1.dylib",
		"/System/Library/Frameworks/Security.framework/Security",
	)
	art := layOut(t, distDir, "app", map[string][]byte{"app": bin})

	var diag bytes.Buffer
	reports, err := Check(darwinConfig(distDir, &diag), []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	ln := reports[0]
	if ln.Binary != "app" || ln.Target != testTarget {
		t.Fatalf("report identity wrong: %+v", ln)
	}
	if len(ln.System) != 1 || ln.System[0].Path != "/usr/lib/libSystem.B.dylib" {
		t.Errorf("system bucket: %+v", ln.System)
	}
	if len(ln.Homebrew) != 1 || ln.Homebrew[0].Source != "zlib" {
		t.Errorf("homebrew bucket: %+v", ln.Homebrew)
	}
	if len(ln.Frameworks) != 1 {
		t.Errorf("frameworks bucket: %+v", ln.Frameworks)
	}
	if diag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", diag.String())
	}
}

func TestCheck_NoMatchingArtifact(t *testing.T) {
	distDir := t.TempDir()
	art := artifacts.Artifact{
		ID:               "app",
		TargetTriples:    []string{"x86_64-unknown-linux-gnu"},
		RequiredBinaries: map[string]string{"app": "app"},
	}

	var diag bytes.Buffer
	reports, err := Check(darwinConfig(distDir, &diag), []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected no reports, got %d", len(reports))
	}
	if !strings.Contains(diag.String(), "No matching artifact for target "+testTarget) {
		t.Fatalf("missing diagnostic, got %q", diag.String())
	}
}

func TestCheck_MissingBinaryIsSkipped(t *testing.T) {
	distDir := t.TempDir()
	art := layOut(t, distDir, "app", map[string][]byte{
		"present": machoLinking("/usr/lib/libSystem.B.dylib"),
	})
	art.RequiredBinaries["absent"] = "absent"

	var diag bytes.Buffer
	reports, err := Check(darwinConfig(distDir, &diag), []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].Binary != "present" {
		t.Fatalf("reports: %+v", reports)
	}
	if !strings.Contains(diag.String(), "missing; skipping check") {
		t.Fatalf("missing diagnostic, got %q", diag.String())
	}
}

func TestCheck_GlobFiltering(t *testing.T) {
	distDir := t.TempDir()
	bin := machoLinking("/usr/lib/libSystem.B.dylib")
	art := layOut(t, distDir, "suite", map[string][]byte{
		"app-cli":    bin,
		"app-daemon": bin,
		"helper":     bin,
	})

	var diag bytes.Buffer
	cfg := darwinConfig(distDir, &diag)
	cfg.IncludeGlobs = "app-*"
	cfg.ExcludeGlobs = "*-daemon"
	reports, err := Check(cfg, []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].Binary != "app-cli" {
		t.Fatalf("glob filter selected the wrong binaries: %+v", reports)
	}
}

func TestCheck_CacheReuse(t *testing.T) {
	distDir := t.TempDir()
	art := layOut(t, distDir, "app", map[string][]byte{
		"app": machoLinking("/usr/lib/libSystem.B.dylib"),
	})

	var diag bytes.Buffer
	cfg := darwinConfig(distDir, &diag)
	if _, err := Check(cfg, []artifacts.Artifact{art}); err != nil {
		t.Fatal(err)
	}

	cachePath := filepath.Join(distDir, ".dylink-cache.json")
	raw, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatalf("first run did not write the cache: %v", err)
	}

	// Plant a marker in the cached report; a second run over the unchanged
	// binary must surface the cached entry rather than re-inspecting.
	var db struct {
		Entries map[string]types.Linkage `json:"entries"`
	}
	if err := json.Unmarshal(raw, &db); err != nil {
		t.Fatal(err)
	}
	if len(db.Entries) != 1 {
		t.Fatalf("cache entries: %d", len(db.Entries))
	}
	for key, ln := range db.Entries {
		ln.Binary = "from-cache"
		db.Entries[key] = ln
	}
	edited, _ := json.Marshal(db)
	if err := os.WriteFile(cachePath, edited, 0o644); err != nil {
		t.Fatal(err)
	}

	reports, err := Check(cfg, []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].Binary != "from-cache" {
		t.Fatalf("cache was not consulted: %+v", reports)
	}
}

func TestCheck_CacheKeepsBinaryIdentity(t *testing.T) {
	distDir := t.TempDir()
	// Two binaries with identical content share a cache entry; each report
	// must still carry its own name.
	content := machoLinking("/usr/lib/libSystem.B.dylib")
	art := layOut(t, distDir, "app", map[string][]byte{
		"aaa": content,
		"bbb": content,
	})

	var diag bytes.Buffer
	cfg := darwinConfig(distDir, &diag)
	reports, err := Check(cfg, []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Binary != "aaa" || reports[1].Binary != "bbb" {
		t.Fatalf("binary identity wrong: %q and %q", reports[0].Binary, reports[1].Binary)
	}

	// Same duplication across runs, now served entirely from the cache.
	reports, err = Check(cfg, []artifacts.Artifact{art})
	if err != nil {
		t.Fatal(err)
	}
	if reports[0].Binary != "aaa" || reports[1].Binary != "bbb" {
		t.Fatalf("cached binary identity wrong: %q and %q", reports[0].Binary, reports[1].Binary)
	}
	if reports[0].Target != testTarget || reports[1].Target != testTarget {
		t.Fatalf("cached target identity wrong: %+v", reports)
	}
}

func TestCheck_NoCacheSkipsCacheFile(t *testing.T) {
	distDir := t.TempDir()
	art := layOut(t, distDir, "app", map[string][]byte{
		"app": machoLinking("/usr/lib/libSystem.B.dylib"),
	})

	var diag bytes.Buffer
	cfg := darwinConfig(distDir, &diag)
	cfg.NoCache = true
	if _, err := Check(cfg, []artifacts.Artifact{art}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(distDir, ".dylink-cache.json")); !os.IsNotExist(err) {
		t.Fatalf("cache file written despite NoCache: %v", err)
	}
}

func TestDetermine_UnsupportedTarget(t *testing.T) {
	_, err := Determine(inspect.New(), classify.NewWithHost("darwin"), "nope", "mips-unknown-unknown")
	if err == nil {
		t.Fatal("expected an error for an unrecognized target")
	}
}

func TestSelected(t *testing.T) {
	cases := []struct {
		name, include, exclude string
		want                   bool
	}{
		{"app", "", "", true},
		{"app", "app", "", true},
		{"app", "cli", "", false},
		{"app", "", "app", false},
		{"app-cli", "app-*", "", true},
		{"app-cli", "app-*", "*-cli", false},
		{"helper", "app,helper", "", true},
	}
	for _, c := range cases {
		if got := selected(c.name, c.include, c.exclude); got != c.want {
			t.Errorf("selected(%q, %q, %q) = %v, want %v", c.name, c.include, c.exclude, got, c.want)
		}
	}
}
