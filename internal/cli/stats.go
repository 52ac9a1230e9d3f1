package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/analysis"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/reporter"
	"github.com/yaklabco/syntree/pkg/runner"
)

type statsFlags struct {
	format   string
	sortBy   string
	asc      bool
	top      int
	light    bool
	compact  bool
	noTypes  bool
	noErrors bool
	noFiles  bool
}

func newStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats [paths...]",
		Short: "Summarize the trees of a set of files",
		Long: `Parse files and aggregate their trees: how often every element type
occurs, which syntax error messages come up and in which files, and the
size, depth and build time of every tree.

Examples:
  syntree stats                       # Current directory
  syntree stats --sort errors --top 10
  syntree stats --format json docs/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount), "sort order: count, alpha, errors")
	cmd.Flags().BoolVar(&flags.asc, "asc", false, "sort counts in ascending order")
	cmd.Flags().IntVar(&flags.top, "top", 0, "rows per section in text output (0 = all)")
	cmd.Flags().BoolVar(&flags.light, "light", false, "build light trees instead of node trees")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noTypes, "no-types", false, "omit the element type histogram")
	cmd.Flags().BoolVar(&flags.noErrors, "no-errors", false, "omit the syntax error messages")
	cmd.Flags().BoolVar(&flags.noFiles, "no-files", false, "omit the per-file rows")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, flags *statsFlags) error {
	ctx := cmd.Context()

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return &ExitError{Code: ExitInvalidUsage, Err: fmt.Errorf("invalid sort %q: must be count, alpha or errors", flags.sortBy)}
	}
	format, err := config.ParseFormat(flags.format)
	if err != nil || format == config.FormatSexpr || format == config.FormatTable {
		return &ExitError{Code: ExitInvalidUsage, Err: fmt.Errorf("invalid format %q: must be text or json", flags.format)}
	}

	cfg, workDir, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	mode := runner.ModeHeavy
	if flags.light {
		mode = runner.ModeLight
	}

	result, err := runner.Run(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Mode:         mode,
		Config:       cfg,
		Logger:       logging.FromContext(ctx),
	})
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("parse run failed: %w", err)}
	}
	defer result.Release()

	report := analysis.Analyze(result, analysis.Options{
		IncludeByType:    !flags.noTypes,
		IncludeByMessage: !flags.noErrors,
		IncludeByFile:    !flags.noFiles,
		SortBy:           sortBy,
		SortDesc:         !flags.asc,
		WorkingDir:       workDir,
	})

	logging.FromContext(ctx).Debug("analysis complete",
		logging.FieldFilesParsed, report.Totals.FilesParsed,
		logging.FieldFilesWithErrors, report.Totals.FilesWithErrors,
	)

	err = reporter.WriteStats(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     format,
		Color:      cfg.Color,
		Compact:    flags.compact,
		WorkingDir: workDir,
	}, report, flags.top)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("report stats: %w", err)}
	}

	return resultError(result)
}
