package textedit

import (
	"fmt"
	"slices"
)

// RangeError describes an edit that does not fit the document.
type RangeError struct {
	Edit    Edit
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	First  Edit
	Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Validate checks that every edit lies within a document of length size.
func Validate(edits []Edit, size int) error {
	for _, edit := range edits {
		switch {
		case edit.Start < 0:
			return &RangeError{Edit: edit, Message: "start offset is negative"}
		case edit.End < edit.Start:
			return &RangeError{Edit: edit, Message: "end offset is before start offset"}
		case edit.End > size:
			return &RangeError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds document length %d", edit.End, size),
			}
		}
	}
	return nil
}

// Sort orders edits by start offset, then by end offset. Insertions at the
// same offset keep their relative order.
func Sort(edits []Edit) {
	slices.SortStableFunc(edits, func(a, b Edit) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
}

// Prepare validates a copy of edits, sorts it and rejects overlaps. Two
// insertions at one offset do not overlap.
func Prepare(edits []Edit, size int) ([]Edit, error) {
	if err := Validate(edits, size); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	Sort(sorted)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}
	return sorted, nil
}
