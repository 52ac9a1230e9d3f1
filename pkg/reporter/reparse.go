package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/runner"
	"github.com/yaklabco/syntree/pkg/session"
	"github.com/yaklabco/syntree/pkg/textedit"
)

// ReparseReport is one document update to display.
type ReparseReport struct {
	Path     string
	Language string
	Update   session.Update
}

// JSONReparse is the JSON form of a ReparseReport.
type JSONReparse struct {
	Version      string            `json:"version"`
	Path         string            `json:"path"`
	Language     string            `json:"language,omitempty"`
	Revision     int               `json:"revision"`
	Incremental  bool              `json:"incremental"`
	Edits        []string          `json:"edits"`
	Diff         string            `json:"diff,omitempty"`
	SyntaxErrors []JSONSyntaxError `json:"syntaxErrors"`
	Tree         *JSONNode         `json:"tree,omitempty"`
}

// WriteReparse writes the text diff of an update, how the tree absorbed it,
// and the syntax errors of the new tree. It returns the syntax error count.
// The table format falls back to text.
func WriteReparse(opts Options, report ReparseReport) (_ int, err error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	bw := bufio.NewWriterSize(opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	update := report.Update
	tree := update.Result.Tree
	path := displayPath(report.Path, opts.WorkingDir)
	errs := runner.SyntaxErrors(update.After, tree)
	diff := textedit.NewDiff(path, update.Before, update.After)

	switch opts.Format {
	case config.FormatJSON:
		output := JSONReparse{
			Version:      jsonVersion,
			Path:         path,
			Language:     report.Language,
			Revision:     update.Version,
			Incremental:  update.Result.Incremental,
			Edits:        make([]string, 0),
			Diff:         diff.String(),
			SyntaxErrors: make([]JSONSyntaxError, 0, len(errs)),
		}
		if script := update.Result.Script; script != nil {
			for _, edit := range script.Edits {
				output.Edits = append(output.Edits, edit.String())
			}
		}
		for _, syntaxErr := range errs {
			output.SyntaxErrors = append(output.SyntaxErrors, JSONSyntaxError(syntaxErr))
		}
		if opts.ShowTree {
			output.Tree = jsonNode(heavyView(tree))
		}

		encoder := json.NewEncoder(bw)
		if !opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("encode JSON: %w", err)
		}
		return len(errs), nil

	case config.FormatSexpr:
		fmt.Fprintf(bw, "; %s version %d\n", path, update.Version)
		fmt.Fprintln(bw, tree.String())
		return len(errs), nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))

	writeDiff(bw, styles, diff)

	fmt.Fprintln(bw, styles.FormatFileHeader(path, report.Language, len(errs)))
	fmt.Fprintln(bw, styles.Dim.Render(mergeSummary(update)))
	if script := update.Result.Script; script != nil {
		for _, edit := range script.Edits {
			fmt.Fprintln(bw, "  "+edit.String())
		}
	}

	if opts.ShowTree {
		for _, line := range heavyView(tree).lines(0, nil) {
			fmt.Fprint(bw, styles.FormatTreeLine(line))
		}
	}

	for _, syntaxErr := range errs {
		var line string
		if opts.ShowContext {
			line = sourceLine(update.After, syntaxErr.Line)
		}
		fmt.Fprint(bw, styles.FormatSyntaxError(path, syntaxErr.Line, syntaxErr.Column, syntaxErr.Message, line))
	}

	return len(errs), nil
}

// mergeSummary describes how the update reached the tree, e.g.
// "version 2: merged 1 tree edit".
func mergeSummary(update session.Update) string {
	if !update.Result.Incremental {
		return fmt.Sprintf("version %d: full parse", update.Version)
	}
	n := 0
	if update.Result.Script != nil {
		n = update.Result.Script.Len()
	}
	return fmt.Sprintf("version %d: merged %d %s", update.Version, n, pluralize(n, "tree edit", "tree edits"))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// writeDiff writes a unified diff with colored lines.
func writeDiff(bw *bufio.Writer, styles *pretty.Styles, diff *textedit.Diff) {
	if !diff.HasChanges() {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n") {
		var styled string
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			styled = styles.DiffHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			styled = styles.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = styles.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = styles.DiffRemove.Render(line)
		default:
			styled = styles.DiffContext.Render(line)
		}
		fmt.Fprintln(bw, styled)
	}
}
