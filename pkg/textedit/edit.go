// Package textedit describes byte-range edits to a document, applies them,
// and renders the result as a unified diff.
package textedit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Parse for a specification it cannot read.
var ErrMalformed = errors.New("malformed edit")

// Edit replaces the bytes [Start, End) of a document with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Insert returns an edit that inserts text at offset.
func Insert(offset int, text string) Edit {
	return Edit{Start: offset, End: offset, Text: text}
}

// Delete returns an edit that removes [start, end).
func Delete(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Delta is the change in document length the edit causes.
func (e Edit) Delta() int {
	return len(e.Text) - (e.End - e.Start)
}

// String renders the edit in the form Parse accepts.
func (e Edit) String() string {
	quoted := strconv.Quote(e.Text)
	text := strings.ReplaceAll(quoted[1:len(quoted)-1], `\"`, `"`)
	return fmt.Sprintf("%d:%d:%s", e.Start, e.End, text)
}

// Parse reads an edit written as START:END:TEXT. TEXT may be empty and may
// use Go escape sequences such as \n and \t.
func Parse(spec string) (Edit, error) {
	const fields = 3

	parts := strings.SplitN(spec, ":", fields)
	if len(parts) != fields {
		return Edit{}, fmt.Errorf("%w %q: expected START:END:TEXT", ErrMalformed, spec)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: start: %w", ErrMalformed, spec, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: end: %w", ErrMalformed, spec, err)
	}

	text, err := strconv.Unquote(`"` + strings.ReplaceAll(parts[2], `"`, `\"`) + `"`)
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: text: %w", ErrMalformed, spec, err)
	}

	return Edit{Start: start, End: end, Text: text}, nil
}

// ParseAll parses every specification in order.
func ParseAll(specs []string) ([]Edit, error) {
	edits := make([]Edit, 0, len(specs))
	for _, spec := range specs {
		edit, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}
	return edits, nil
}
