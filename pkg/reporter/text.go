package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to parse."))
		}
		return 0, nil
	}

	var total int
	for i := range result.Files {
		total += r.reportFile(&result.Files[i])
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file and returns its syntax error count. Files
// without errors are only shown when trees are requested.
func (r *TextReporter) reportFile(file *runner.FileOutcome) int {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	if len(file.SyntaxErrors) == 0 && !r.opts.ShowTree {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, file.Language, len(file.SyntaxErrors)))

	if r.opts.ShowTree {
		if view := outcomeView(file); view != nil {
			for _, line := range view.lines(0, nil) {
				fmt.Fprint(r.bw, r.styles.FormatTreeLine(line))
			}
		}
	}

	r.writeSyntaxErrors(path, file.Text, file.SyntaxErrors)

	// Blank line between files
	fmt.Fprintln(r.bw)
	return len(file.SyntaxErrors)
}

func (r *TextReporter) writeSyntaxErrors(path, text string, errs []runner.SyntaxError) {
	for _, syntaxErr := range errs {
		var line string
		if r.opts.ShowContext {
			line = sourceLine(text, syntaxErr.Line)
		}
		fmt.Fprint(r.bw, r.styles.FormatSyntaxError(path, syntaxErr.Line, syntaxErr.Column, syntaxErr.Message, line))
	}
}
