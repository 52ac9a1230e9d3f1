package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/syntree/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 syntax errors in 2 files (5 files parsed)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	parsed := s.Dim.Render(fmt.Sprintf(" (%d %s parsed)", stats.FilesParsed, plural(stats.FilesParsed, "file", "files")))

	if stats.SyntaxErrors == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No syntax errors") + parsed + "\n"
	}

	var parts []string
	if stats.SyntaxErrors > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s in %d %s",
			stats.SyntaxErrors, plural(stats.SyntaxErrors, "syntax error", "syntax errors"),
			stats.FilesWithSyntaxErrors, plural(stats.FilesWithSyntaxErrors, "file", "files"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s not parsed",
			stats.FilesErrored, plural(stats.FilesErrored, "file", "files"))))
	}
	return strings.Join(parts, ", ") + parsed + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " + s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files parsed:      " + s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)) + "\n")
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files not parsed:  " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	languages := make([]string, 0, len(stats.ByLanguage))
	for name := range stats.ByLanguage {
		languages = append(languages, name)
	}
	slices.Sort(languages)
	for _, name := range languages {
		fmt.Fprintf(&builder, "    %-16s %s\n", name+":", s.SummaryValue.Render(strconv.Itoa(stats.ByLanguage[name])))
	}

	builder.WriteString("\n")
	builder.WriteString("  Syntax errors:     ")
	if stats.SyntaxErrors > 0 {
		builder.WriteString(s.Failure.Render(strconv.Itoa(stats.SyntaxErrors)))
	} else {
		builder.WriteString(s.Success.Render("0"))
	}
	builder.WriteString("\n")

	return builder.String()
}
