package markdown

import (
	"strings"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// CodeDefinition parses the content of a fenced code block into lines.
// It is the nested definition for CodeContent tokens.
func CodeDefinition() builder.Definition {
	return builder.Definition{
		Name:     Name + "-code",
		NewLexer: func() lexeme.Lexer { return lexeme.NewScanLexer(scanCodeLine) },
		Parse:    parseCode,
		Root:     CodeContent,
	}
}

func scanCodeLine(text string, pos int) (syntax.ElementType, int, error) {
	switch text[pos] {
	case '\n':
		return Newline, pos + 1, nil
	case '\r':
		if strings.HasPrefix(text[pos:], "\r\n") {
			return Newline, pos + len("\r\n"), nil
		}
		return Newline, pos + 1, nil
	}
	if end := strings.IndexAny(text[pos:], "\r\n"); end >= 0 {
		return CodeLine, pos + end, nil
	}
	return CodeLine, len(text), nil
}

func parseCode(b *builder.Builder, root syntax.ElementType) {
	m := b.Mark()
	for !b.EOF() {
		b.TokenType()
		b.AdvanceLexer()
	}
	m.Done(root)
}
