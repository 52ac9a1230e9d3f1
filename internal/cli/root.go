// Package cli provides the Cobra command structure for syntree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root syntree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var color string

	rootCmd := &cobra.Command{
		Use:   "syntree",
		Short: "Build, inspect and incrementally update syntax trees",
		Long: `syntree parses source files into lossless syntax trees using an
error-tolerant tree builder. Every byte of the input ends up in the tree;
malformed input produces error elements instead of failures.

Trees can be dumped as text, JSON or s-expressions, summarized as a table,
and updated incrementally: after an edit, only the parts of the tree that
changed are replaced.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging and builder consistency checks")
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config file (.yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&color, flagColor, string(config.ColorAuto),
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().String(flagLogLevel, "warn", "log level: debug, info, warn, error")

	// Add subcommands.
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newReparseCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newLanguagesCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(config.ColorMode(color), os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
