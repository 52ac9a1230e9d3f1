package pretty

import (
	"fmt"
	"strings"
)

// FormatSyntaxError formats one syntax error as "path:line:col  error
// message", followed by the source line and a caret when sourceLine is set.
func (s *Styles) FormatSyntaxError(path string, line, column int, message, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), line, column)
	fmt.Fprintf(&builder, "  %s  %s  %s\n", location, s.Error.Render("error"), s.Message.Render(message))

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, column))
	}
	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFileHeader formats the heading printed above a file's output.
func (s *Styles) FormatFileHeader(path, language string, errorCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case errorCount > 0:
		header += s.Dim.Render(fmt.Sprintf(" (%s, %d %s)", language, errorCount, plural(errorCount, "syntax error", "syntax errors")))
	case language != "":
		header += s.Dim.Render(" (" + language + ")")
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
