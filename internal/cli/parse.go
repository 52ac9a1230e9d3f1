package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/reporter"
	"github.com/yaklabco/syntree/pkg/runner"
)

type parseFlags struct {
	format          string
	ignore          []string
	light           bool
	tree            bool
	noContext       bool
	noSummary       bool
	compact         bool
	followSymlinks  bool
	includeVendored bool
}

func newParseCommand() *cobra.Command {
	var cfg config.Config
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse files and report syntax errors",
		Long:  parseLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, &cfg, flags)
		},
	}

	addParseFlags(cmd, &cfg, flags)

	return cmd
}

const parseLongDescription = `Parse files into syntax trees and report the error elements found.

By default, parses every file with a known language in the current directory
and subdirectories. Specify paths to parse specific files or directories.
The language of each file comes from its extension, the languages section
of the configuration, or its content.

Examples:
  syntree parse                      # Parse current directory
  syntree parse docs/                # Parse docs directory
  syntree parse --tree README.md     # Dump the tree of one file
  syntree parse --format sexpr a.calc
  syntree parse --format table       # Per-file tree statistics
  syntree parse --light              # Build light trees only`

func runParse(cmd *cobra.Command, args []string, cfg *config.Config, flags *parseFlags) error {
	ctx := cmd.Context()

	// Only set values that were explicitly provided via CLI flags.
	if cmd.Flags().Changed("format") {
		format, err := config.ParseFormat(flags.format)
		if err != nil {
			return &ExitError{Code: ExitInvalidUsage, Err: err}
		}
		cfg.Format = format
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = flags.ignore
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	mode := runner.ModeHeavy
	if flags.light {
		mode = runner.ModeLight
	}

	runOpts := runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		ExcludeGlobs:    finalCfg.Ignore,
		FollowSymlinks:  flags.followSymlinks,
		IncludeVendored: flags.includeVendored,
		Jobs:            finalCfg.Jobs,
		Mode:            mode,
		Config:          finalCfg,
		Logger:          logging.FromContext(ctx),
	}

	logging.FromContext(ctx).Debug("starting parse run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.Run(ctx, runOpts)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("parse run failed: %w", err)}
	}
	defer result.Release()

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      finalCfg.Format,
		Color:       finalCfg.Color,
		ShowTree:    flags.tree,
		ShowContext: !flags.noContext,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("report results: %w", err)}
	}

	return resultError(result)
}

func addParseFlags(cmd *cobra.Command, cfg *config.Config, flags *parseFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sexpr, table")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&cfg.DepthLimit, "depth-limit", 0, "tree depth at which incremental merging gives up (0 = default)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.light, "light", false, "build light trees instead of node trees")
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "include the tree of every file in the output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "parse vendored and generated files")
}
