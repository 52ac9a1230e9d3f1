package pretty

import (
	"fmt"
	"strconv"
	"strings"
)

// maxTokenText is the number of bytes of token text shown in a tree dump.
const maxTokenText = 40

// TreeLine is one node of a tree dump.
type TreeLine struct {
	Depth int
	Type  string
	Start int
	End   int

	// Text is shown for tokens and collapsed nodes.
	Text string

	Token bool
	Lazy  bool

	Error   bool
	Message string
}

// FormatTreeLine renders line indented two spaces per level, e.g.
//
//	BINARY_EXPRESSION [0,3)
//	  REFERENCE [0,1) "a"
func (s *Styles) FormatTreeLine(line TreeLine) string {
	var builder strings.Builder

	builder.WriteString(s.Guide.Render(strings.Repeat("  ", line.Depth)))

	span := s.Range.Render(fmt.Sprintf("[%d,%d)", line.Start, line.End))
	switch {
	case line.Error:
		fmt.Fprintf(&builder, "%s %s %s", s.ErrorNode.Render(line.Type), span, s.ErrorNode.Render(strconv.Quote(line.Message)))
	case line.Token:
		style := s.Token
		if line.Lazy {
			style = s.Lazy
		}
		fmt.Fprintf(&builder, "%s %s %s", style.Render(line.Type), span, s.TokenText.Render(quoteTruncated(line.Text)))
	case line.Lazy:
		fmt.Fprintf(&builder, "%s %s %s", s.Lazy.Render(line.Type), span, s.Dim.Render("lazy"))
	default:
		fmt.Fprintf(&builder, "%s %s", s.Composite.Render(line.Type), span)
	}

	builder.WriteByte('\n')
	return builder.String()
}

func quoteTruncated(text string) string {
	if len(text) <= maxTokenText {
		return strconv.Quote(text)
	}
	return strconv.Quote(text[:maxTokenText]) + "..."
}
