package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow is one file of the statistics table.
type TableRow struct {
	File     string
	Language string
	Nodes    int
	Depth    int
	Errors   int
	Duration time.Duration

	// Failure is set when the file produced no tree.
	Failure string
}

// TableFormatter formats per-file statistics as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

var tableHeaders = [...]string{"FILE", "LANGUAGE", "NODES", "DEPTH", "ERRORS", "TIME"}

// FormatTable renders rows under a header. File paths are shortened from the
// left when the table would not fit the terminal.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][len(tableHeaders)]string, len(rows))
	widths := [len(tableHeaders)]int{}
	for i, header := range tableHeaders {
		widths[i] = len(header)
	}
	for i, row := range rows {
		cells[i] = rowCells(row)
		for col, cell := range cells[i] {
			widths[col] = max(widths[col], len(cell))
		}
	}

	rest := 0
	for _, w := range widths[1:] {
		rest += w + tablePadding
	}
	widths[0] = min(widths[0], max(t.termWidth-rest, minFileWidth))

	total := rest + widths[0]

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(formatCells(tableHeaders, widths)) + "\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")
	for i, row := range rows {
		cells[i][0] = truncateFilePath(cells[i][0], widths[0])
		line := formatCells(cells[i], widths)
		if row.Failure != "" || row.Errors > 0 {
			line = t.styles.TableErrorRow.Render(line)
		}
		builder.WriteString(line + "\n")
		if row.Failure != "" {
			builder.WriteString(t.styles.Dim.Render("  "+row.Failure) + "\n")
		}
	}
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)) + "\n")
	return builder.String()
}

func rowCells(row TableRow) [len(tableHeaders)]string {
	if row.Failure != "" {
		return [...]string{row.File, row.Language, "-", "-", "-", "-"}
	}
	return [...]string{
		row.File,
		row.Language,
		strconv.Itoa(row.Nodes),
		strconv.Itoa(row.Depth),
		strconv.Itoa(row.Errors),
		row.Duration.Round(time.Microsecond).String(),
	}
}

// formatCells left-aligns the file and language columns and right-aligns
// the numbers.
func formatCells(cells [len(tableHeaders)]string, widths [len(tableHeaders)]int) string {
	var builder strings.Builder
	for col, cell := range cells {
		if col > 0 {
			builder.WriteString(strings.Repeat(" ", tablePadding))
		}
		if col < 2 {
			fmt.Fprintf(&builder, "%-*s", widths[col], cell)
		} else {
			fmt.Fprintf(&builder, "%*s", widths[col], cell)
		}
	}
	return strings.TrimRight(builder.String(), " ")
}

// truncateFilePath shortens a path from the left, keeping the file name.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
