package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter formats per-file tree statistics as a styled table.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, getTerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	rows := make([]pretty.TableRow, 0, len(result.Files))
	for _, file := range result.Files {
		row := pretty.TableRow{
			File:     displayPath(file.Path, r.opts.WorkingDir),
			Language: file.Language,
			Nodes:    file.Stats.Composites + file.Stats.Leaves,
			Depth:    file.Stats.Depth,
			Errors:   len(file.SyntaxErrors),
			Duration: file.Duration,
		}
		if file.Error != nil {
			row.Failure = file.Error.Error()
		}
		rows = append(rows, row)
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(rows))

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	}

	return result.Stats.SyntaxErrors, nil
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
