package dylink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dylink/dylink/internal/config"
	"github.com/dylink/dylink/internal/engine"
	"github.com/dylink/dylink/internal/report"
	"github.com/dylink/dylink/internal/update"
	"github.com/dylink/dylink/pkg/core"
)

var (
	flagTargets  []string
	flagDistDir  string
	flagManifest string
	flagFromJSON string
	flagInclude  string
	flagExclude  string
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Inspect built binaries and classify their dynamic dependencies",
		RunE:  runCheck,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringArrayVarP(&flagTargets, "target", "t", nil, "target triple to check (repeatable)")
	cmd.Flags().StringVarP(&flagDistDir, "dist-dir", "d", "", "distribution directory holding built binaries (default \"dist\")")
	cmd.Flags().StringVar(&flagManifest, "manifest", "", "artifact manifest file (default <dist-dir>/artifacts.json)")
	cmd.Flags().StringVar(&flagFromJSON, "from-json", "", "render reports from a JSON file instead of inspecting binaries")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated globs of binary names to check")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated globs of binary names to skip")
}

func runCheck(_ *cobra.Command, _ []string) error {
	if flagSelfUpdate {
		return selfUpdate()
	}

	// Load configs: CLI > local > global
	cwd, _ := os.Getwd()
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(cwd); err == nil {
		lcfg = c
	}

	noColor := flagNoColor || pickBool(false, lcfg.NoColor, gcfg.NoColor) ||
		!term.IsTerminal(int(os.Stderr.Fd()))
	noCache := flagNoCache || pickBool(false, lcfg.NoCache, gcfg.NoCache)

	reports, err := gatherReports(gcfg, lcfg, noCache)
	if err != nil {
		return err
	}

	report.PrintAll(os.Stderr, reports, report.PrintOptions{NoColor: noColor})
	if flagJSON {
		if err := core.MarshalLinkages(os.Stdout, reports); err != nil {
			return err
		}
	}

	noUpdate := flagNoUpdateCheck || pickBool(false, lcfg.NoUpdateCheck, gcfg.NoUpdateCheck)
	if latest, newer, _ := update.Check(version, noUpdate); newer {
		fmt.Fprintf(os.Stderr, "\nA new dylink release is available: v%s (run with --self-update to upgrade)\n", latest)
	}
	return nil
}

func gatherReports(gcfg, lcfg config.FileConfig, noCache bool) ([]core.Linkage, error) {
	if flagFromJSON != "" {
		f, err := os.Open(flagFromJSON)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return core.UnmarshalLinkages(f)
	}

	targets := flagTargets
	if len(targets) == 0 {
		targets = append(targets, lcfg.Targets...)
	}
	if len(targets) == 0 {
		targets = append(targets, gcfg.Targets...)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets requested; pass --target or set targets in config")
	}

	distDir := pickString(flagDistDir, lcfg.DistDir, gcfg.DistDir)
	if distDir == "" {
		distDir = "dist"
	}
	manifest := pickString(flagManifest, lcfg.Manifest, gcfg.Manifest)
	if manifest == "" {
		manifest = filepath.Join(distDir, "artifacts.json")
	}

	arts, err := core.LoadArtifacts(manifest)
	if err != nil {
		return nil, err
	}

	cfg := engine.Config{
		Targets:      targets,
		DistDir:      distDir,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		NoCache:      noCache,
	}
	return core.Check(cfg, arts)
}
