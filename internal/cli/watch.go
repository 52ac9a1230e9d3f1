package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/reporter"
	"github.com/yaklabco/syntree/pkg/session"
)

type watchFlags struct {
	format        string
	tree          bool
	noContext     bool
	noIncremental bool
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reparse a file incrementally every time it is saved",
		Long: `Parse FILE, then follow it on disk. Each time the file is written, the
new text is merged into the previous tree and the change is reported the
same way the reparse command reports it. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sexpr")
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "include the new tree in the output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.noIncremental, "no-incremental", false, "rebuild the tree from scratch")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, cfg *config.Config, flags *watchFlags) error {
	ctx := cmd.Context()

	if cmd.Flags().Changed("format") {
		format, err := config.ParseFormat(flags.format)
		if err != nil {
			return &ExitError{Code: ExitInvalidUsage, Err: err}
		}
		cfg.Format = format
	}
	if flags.noIncremental {
		incremental := false
		cfg.Incremental = &incremental
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	// Watch before the first read so no write in between is lost.
	watcher, err := session.NewWatcher(path)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}
	defer func() { _ = watcher.Close() }()

	doc, language, err := openDocument(ctx, path, finalCfg)
	if err != nil {
		return err
	}

	ctx = logging.WithFields(ctx, logging.FieldPath, path, logging.FieldLanguage, language.Name)
	logging.FromContext(ctx).Info("watching")

	opts := reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      finalCfg.Format,
		Color:       finalCfg.Color,
		ShowTree:    flags.tree,
		ShowContext: !flags.noContext,
		Compact:     true,
		WorkingDir:  workDir,
	}

	err = watcher.Run(ctx, doc, func(update session.Update) error {
		_, writeErr := reporter.WriteReparse(opts, reporter.ReparseReport{
			Path:     path,
			Language: language.Name,
			Update:   update,
		})
		return writeErr
	})
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("watch %s: %w", path, err)}
	}
	return nil
}
