package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/analysis"
	"github.com/yaklabco/syntree/pkg/config"
)

// WriteStats writes an analysis report. Text output lists at most limit
// rows per section; zero means no limit. JSON always holds every row.
func WriteStats(opts Options, report *analysis.Report, limit int) (err error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	bw := bufio.NewWriterSize(opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	switch opts.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(bw)
		if !opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case config.FormatSexpr:
		return fmt.Errorf("unsupported format for stats: %s", opts.Format)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))

	if len(report.ByType) > 0 {
		rows := truncate(report.ByType, limit)
		width := 0
		for _, ta := range rows {
			width = max(width, len(ta.Type))
		}
		section(bw, styles, "Element types", len(rows), len(report.ByType))
		for _, ta := range rows {
			fmt.Fprintf(bw, "  %s  %6d  %s\n",
				styles.Composite.Render(pad(ta.Type, width)), ta.Count,
				styles.Dim.Render(fmt.Sprintf("in %d %s", ta.Files, pluralize(ta.Files, "file", "files"))))
		}
	}

	if len(report.ByMessage) > 0 {
		rows := truncate(report.ByMessage, limit)
		section(bw, styles, "Syntax errors", len(rows), len(report.ByMessage))
		for _, ma := range rows {
			fmt.Fprintf(bw, "  %6d  %s  %s\n", ma.Count, styles.Error.Render(ma.Message),
				styles.Dim.Render(strings.Join(ma.Files, ", ")))
		}
	}

	if len(report.ByFile) > 0 {
		rows := truncate(report.ByFile, limit)
		width := 0
		for _, fa := range rows {
			width = max(width, len(fa.Path))
		}
		section(bw, styles, "Files", len(rows), len(report.ByFile))
		for _, fa := range rows {
			errs := styles.Dim.Render("no errors")
			if fa.SyntaxErrors > 0 {
				errs = styles.Failure.Render(fmt.Sprintf("%d %s", fa.SyntaxErrors, pluralize(fa.SyntaxErrors, "error", "errors")))
			}
			fmt.Fprintf(bw, "  %s  %-10s %7d nodes  depth %3d  %s  %s\n",
				styles.FilePath.Render(pad(fa.Path, width)), fa.Language, fa.Nodes(), fa.Depth,
				styles.Dim.Render(formatMicros(fa.DurationUS)), errs)
		}
	}

	fmt.Fprintln(bw, totalsLine(styles, report.Totals))
	return nil
}

// section writes a section heading, noting when rows were cut.
func section(w io.Writer, styles *pretty.Styles, title string, shown, total int) {
	if shown < total {
		title = fmt.Sprintf("%s (top %d of %d)", title, shown, total)
	}
	fmt.Fprintln(w, styles.SummaryTitle.Render(title))
}

func totalsLine(styles *pretty.Styles, totals analysis.Totals) string {
	parts := []string{
		fmt.Sprintf("%d %s parsed", totals.FilesParsed, pluralize(totals.FilesParsed, "file", "files")),
		fmt.Sprintf("%d nodes", totals.Nodes()),
		fmt.Sprintf("max depth %d", totals.MaxDepth),
	}
	if totals.FilesFailed > 0 {
		parts = append(parts, styles.Error.Render(fmt.Sprintf("%d not parsed", totals.FilesFailed)))
	}
	if totals.HasSyntaxErrors() {
		parts = append(parts, styles.Failure.Render(fmt.Sprintf("%d %s in %d %s",
			totals.SyntaxErrors, pluralize(totals.SyntaxErrors, "syntax error", "syntax errors"),
			totals.FilesWithErrors, pluralize(totals.FilesWithErrors, "file", "files"))))
	}
	return strings.Join(parts, ", ")
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func formatMicros(us int64) string {
	return (time.Duration(us) * time.Microsecond).Round(time.Microsecond).String()
}
