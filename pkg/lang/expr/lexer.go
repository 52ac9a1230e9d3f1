package expr

import (
	"strings"

	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// NewLexer returns a lexer for the expression language. It never fails;
// unknown bytes become syntax.BadCharacter tokens.
func NewLexer() lexeme.Lexer {
	return lexeme.NewScanLexer(scan)
}

//nolint:gochecknoglobals // Read-only lookup table.
var punctuation = map[byte]syntax.ElementType{
	'.': Dot,
	'+': Plus,
	'*': Star,
	'/': Slash,
	'=': Assign,
	',': Comma,
	';': Semicolon,
	'(': LParen,
	')': RParen,
}

func scan(text string, pos int) (syntax.ElementType, int, error) {
	c := text[pos]
	switch {
	case isSpace(c):
		return Whitespace, scanWhile(text, pos, isSpace), nil
	case strings.HasPrefix(text[pos:], "//"):
		if end := strings.IndexByte(text[pos:], '\n'); end >= 0 {
			return Comment, pos + end, nil
		}
		return Comment, len(text), nil
	case strings.HasPrefix(text[pos:], "->"):
		return Arrow, pos + len("->"), nil
	case c == '-':
		return Minus, pos + 1, nil
	case isLetter(c):
		return Ident, scanWhile(text, pos, isIdentPart), nil
	case isDigit(c):
		return Number, scanWhile(text, pos, isDigit), nil
	}

	if t, ok := punctuation[c]; ok {
		return t, pos + 1, nil
	}
	return syntax.BadCharacter, pos + 1, nil
}

func scanWhile(text string, pos int, accept func(byte) bool) int {
	for pos < len(text) && accept(text[pos]) {
		pos++
	}
	return pos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentPart(c byte) bool {
	return isLetter(c) || isDigit(c)
}
