package dylink

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON          bool
	flagNoColor       bool
	flagNoCache       bool
	flagNoUpdateCheck bool
	flagSelfUpdate    bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the dylink CLI.
var rootCmd = &cobra.Command{
	Use:           "dylink",
	Short:         "Check what your binaries dynamically link against",
	Long:          "dylink inspects built binaries for macOS, Linux, and Windows targets and reports which shared libraries they require and where each one comes from (system, Homebrew, unmanaged, framework, or other).",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the dylink CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON reports on stdout")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the linkage result cache")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update dylink to the latest release")
}
