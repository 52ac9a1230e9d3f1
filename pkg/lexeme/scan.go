package lexeme

import (
	"fmt"
	"io"

	"github.com/yaklabco/syntree/pkg/syntax"
)

// ScanFunc classifies the token starting at pos and returns its type and end offset.
// It is never called with pos == len(text).
type ScanFunc func(text string, pos int) (syntax.ElementType, int, error)

// ScanLexer adapts a ScanFunc to the Lexer interface.
type ScanLexer struct {
	scan ScanFunc
	text string
	pos  int
}

// NewScanLexer returns a Lexer driven by scan.
func NewScanLexer(scan ScanFunc) *ScanLexer {
	return &ScanLexer{scan: scan}
}

// Reset implements Lexer.
func (l *ScanLexer) Reset(text string) {
	l.text = text
	l.pos = 0
}

// Next implements Lexer.
func (l *ScanLexer) Next() (Lexeme, error) {
	if l.pos >= len(l.text) {
		return Lexeme{}, io.EOF
	}

	typ, end, err := l.scan(l.text, l.pos)
	if err != nil {
		return Lexeme{}, err
	}
	if end <= l.pos || end > len(l.text) {
		return Lexeme{}, fmt.Errorf("scan at %d returned end %d: %w", l.pos, end, ErrBadOffset)
	}

	lexeme := Lexeme{Type: typ, Start: l.pos}
	l.pos = end

	return lexeme, nil
}
