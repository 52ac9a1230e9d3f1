package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/fsutil"
	"github.com/yaklabco/syntree/pkg/reporter"
	"github.com/yaklabco/syntree/pkg/session"
	"github.com/yaklabco/syntree/pkg/textedit"
)

// sourceFilePermissions is the mode used when --write replaces a file.
const sourceFilePermissions = 0o644

type reparseFlags struct {
	edits         []string
	with          string
	write         bool
	format        string
	tree          bool
	noContext     bool
	compact       bool
	noIncremental bool
}

func newReparseCommand() *cobra.Command {
	var cfg config.Config
	flags := &reparseFlags{}

	cmd := &cobra.Command{
		Use:   "reparse FILE",
		Short: "Edit a file and merge the new tree into the old one",
		Long: `Parse FILE, change its text, and reparse it incrementally. The output
shows the text diff, the tree edits the merge applied to the old tree, and
the syntax errors of the new tree.

Edits are START:END:TEXT with byte offsets into the original text. TEXT
may use Go escapes such as \n and \t. Offsets of every edit refer to the
original text; edits must not overlap.

Examples:
  syntree reparse a.calc --edit 20:21:3          # Replace one byte
  syntree reparse a.calc --edit 0:0:'let z = 0\n' # Insert a line
  syntree reparse README.md --with README.new.md # Compare two versions
  syntree reparse a.calc --edit 4:5:y --write    # Save the edited file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReparse(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.edits, "edit", nil, "edit to apply as START:END:TEXT (repeatable)")
	cmd.Flags().StringVar(&flags.with, "with", "", "file holding the new text")
	cmd.Flags().BoolVar(&flags.write, "write", false, "write the new text back to FILE")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sexpr")
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "include the new tree in the output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noIncremental, "no-incremental", false, "rebuild the tree from scratch")
	cmd.Flags().IntVar(&cfg.DepthLimit, "depth-limit", 0, "tree depth at which merging gives up (0 = default)")

	return cmd
}

func runReparse(cmd *cobra.Command, path string, cfg *config.Config, flags *reparseFlags) error {
	ctx := cmd.Context()

	switch {
	case len(flags.edits) == 0 && flags.with == "":
		return &ExitError{Code: ExitInvalidUsage, Err: errors.New("either --edit or --with is required")}
	case len(flags.edits) > 0 && flags.with != "":
		return &ExitError{Code: ExitInvalidUsage, Err: errors.New("--edit and --with cannot be combined")}
	}

	edits, err := textedit.ParseAll(flags.edits)
	if err != nil {
		return &ExitError{Code: ExitInvalidUsage, Err: err}
	}

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

	doc, language, err := openDocument(ctx, path, finalCfg)
	if err != nil {
		return err
	}

	var update session.Update
	if flags.with != "" {
		content, _, readErr := fsutil.ReadFile(ctx, flags.with)
		if readErr != nil {
			return &ExitError{Code: ExitIOError, Err: readErr}
		}
		update, err = doc.Replace(ctx, string(content))
	} else {
		update, err = doc.Edit(ctx, edits...)
	}
	if err != nil {
		return &ExitError{Code: ExitInvalidUsage, Err: err}
	}

	count, err := reporter.WriteReparse(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      finalCfg.Format,
		Color:       finalCfg.Color,
		ShowTree:    flags.tree,
		ShowContext: !flags.noContext,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	}, reporter.ReparseReport{Path: path, Language: language.Name, Update: update})
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("report reparse: %w", err)}
	}

	if flags.write {
		if err := fsutil.WriteAtomic(ctx, path, []byte(update.After), sourceFilePermissions); err != nil {
			return &ExitError{Code: ExitIOError, Err: err}
		}
		logging.FromContext(ctx).Info("wrote file", logging.FieldPath, path)
	}

	return syntaxError(count)
}
