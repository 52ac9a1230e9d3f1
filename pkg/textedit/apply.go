package textedit

import "strings"

// Apply prepares edits against text and returns the edited document.
func Apply(text string, edits []Edit) (string, error) {
	prepared, err := Prepare(edits, len(text))
	if err != nil {
		return "", err
	}
	return applySorted(text, prepared), nil
}

func applySorted(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out strings.Builder
	out.Grow(max(len(text)+delta, 0))

	cursor := 0
	for _, e := range edits {
		out.WriteString(text[cursor:e.Start])
		out.WriteString(e.Text)
		cursor = e.End
	}
	out.WriteString(text[cursor:])
	return out.String()
}

// Span returns the smallest range of the original text that covers every
// edit, and the length of the text that replaces it. ok is false when there
// are no edits.
func Span(edits []Edit) (start, end, replacement int, ok bool) {
	if len(edits) == 0 {
		return 0, 0, 0, false
	}

	start, end = edits[0].Start, edits[0].End
	delta := 0
	for _, e := range edits {
		start = min(start, e.Start)
		end = max(end, e.End)
		delta += e.Delta()
	}
	return start, end, end - start + delta, true
}
