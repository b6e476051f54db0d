// Package cli implements the launcher command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the current version.
const Version = "0.1.0"

var (
	debug bool
	quiet bool
)

var rootCmd = &cobra.Command{
	Use:   "launcher",
	Short: "Research workflow launcher",
	Long: `launcher resolves a declarative workflow configuration (template
rendering, base-config inheritance, merging) and hands the result to
the training routine, recording the run and its resolved config.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress run summary output")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetRootCmd returns the root command (used by tests).
func GetRootCmd() *cobra.Command {
	return rootCmd
}
