// Package lexeme caches the token stream of a text in two parallel arrays so
// that token boundaries and types can be read by index.
package lexeme

import (
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/syntree/pkg/syntax"
)

// ErrBadOffset is returned when a lexer reports a token start that moves
// backwards or lies outside the text.
var ErrBadOffset = errors.New("lexeme offset out of range")

// Lexeme is one token as produced by a Lexer.
type Lexeme struct {
	Type  syntax.ElementType
	Start int
}

// Lexer produces lexemes for a text.
// Next returns io.EOF once the text is exhausted.
type Lexer interface {
	Reset(text string)
	Next() (Lexeme, error)
}

// Table holds the lexemes of a text.
// Starts has Count+1 meaningful entries: Starts[Count] is len(Text).
type Table struct {
	Text   string
	Starts []int
	Types  []syntax.ElementType
	Count  int
}

const (
	minCapacity     = 10
	capacityDivisor = 5
	growNumerator   = 3
	growDenominator = 2
)

// Tokenize runs lx over text to completion and caches the result.
// Lexer errors are returned wrapped; no partial table is returned.
func Tokenize(lx Lexer, text string) (*Table, error) {
	capacity := max(minCapacity, len(text)/capacityDivisor)
	table := &Table{
		Text:   text,
		Starts: make([]int, capacity+1),
		Types:  make([]syntax.ElementType, capacity),
	}

	lx.Reset(text)

	i := 0
	prev := 0
	for {
		lexeme, err := lx.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tokenize: %w", err)
		}

		if i == 0 && lexeme.Start != 0 {
			return nil, fmt.Errorf("tokenize: first lexeme at %d leaves the text before it uncovered: %w",
				lexeme.Start, ErrBadOffset)
		}
		if lexeme.Start < prev || lexeme.Start > len(text) {
			return nil, fmt.Errorf("tokenize: lexeme %d at %d (previous %d, text length %d): %w",
				i, lexeme.Start, prev, len(text), ErrBadOffset)
		}

		if i >= len(table.Types)-1 {
			table.resize(i * growNumerator / growDenominator)
		}

		table.Starts[i] = lexeme.Start
		table.Types[i] = lexeme.Type
		prev = lexeme.Start
		i++
	}

	table.Starts[i] = len(text)
	table.Count = i

	return table, nil
}

func (t *Table) resize(newSize int) {
	count := min(newSize, len(t.Types))

	starts := make([]int, newSize+1)
	copy(starts, t.Starts[:count])
	t.Starts = starts

	types := make([]syntax.ElementType, newSize)
	copy(types, t.Types[:count])
	t.Types = types
}

// Start returns the start offset of lexeme i. Start(Count) is len(Text).
func (t *Table) Start(i int) int {
	return t.Starts[i]
}

// End returns the end offset of lexeme i.
func (t *Table) End(i int) int {
	return t.Starts[i+1]
}

// TokenText returns the text of lexeme i.
func (t *Table) TokenText(i int) string {
	return t.Text[t.Starts[i]:t.Starts[i+1]]
}

// Span returns the text covered by lexemes [from, to).
func (t *Table) Span(from, to int) string {
	return t.Text[t.Starts[from]:t.Starts[to]]
}

// TypesIn returns the types of lexemes [from, to).
// The returned slice aliases the table.
func (t *Table) TypesIn(from, to int) []syntax.ElementType {
	return t.Types[from:to:to]
}
