package ast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEdit is returned when a script does not fit the tree it targets.
var ErrInvalidEdit = errors.New("invalid edit")

// EditKind classifies a tree edit.
type EditKind uint8

const (
	// EditDelete removes Old from Parent.
	EditDelete EditKind = iota

	// EditInsert inserts New into Parent at Index.
	EditInsert

	// EditReplace puts New in the place of Old.
	EditReplace
)

func (k EditKind) String() string {
	switch k {
	case EditDelete:
		return "delete"
	case EditInsert:
		return "insert"
	case EditReplace:
		return "replace"
	default:
		return fmt.Sprintf("EditKind(%d)", uint8(k))
	}
}

// Edit is a single structural change against an existing tree.
type Edit struct {
	Kind   EditKind
	Parent *Node
	Old    *Node
	New    *Node
	Index  int
}

func (e Edit) String() string {
	switch e.Kind {
	case EditDelete:
		return fmt.Sprintf("delete %s#%d from %s#%d", e.Old.Type, e.Old.ID, e.Parent.Type, e.Parent.ID)
	case EditInsert:
		return fmt.Sprintf("insert %s at %d in %s#%d", e.New, e.Index, e.Parent.Type, e.Parent.ID)
	case EditReplace:
		return fmt.Sprintf("replace %s#%d with %s", e.Old.Type, e.Old.ID, e.New)
	default:
		return e.Kind.String()
	}
}

// Script is an ordered list of edits. Apply commits all of them or none.
type Script struct {
	Edits []Edit
}

// Delete records the removal of old from parent.
func (s *Script) Delete(parent, old *Node) {
	s.Edits = append(s.Edits, Edit{Kind: EditDelete, Parent: parent, Old: old})
}

// Insert records the insertion of node into parent at index.
func (s *Script) Insert(parent, node *Node, index int) {
	s.Edits = append(s.Edits, Edit{Kind: EditInsert, Parent: parent, New: node, Index: index})
}

// Replace records the replacement of old by node.
func (s *Script) Replace(old, node *Node) {
	s.Edits = append(s.Edits, Edit{Kind: EditReplace, Parent: old.Parent, Old: old, New: node})
}

// Len returns the number of edits.
func (s *Script) Len() int {
	return len(s.Edits)
}

// Empty reports whether the script has no edits.
func (s *Script) Empty() bool {
	return len(s.Edits) == 0
}

// Touched returns the old nodes deleted or replaced by the script.
func (s *Script) Touched() []*Node {
	var out []*Node
	for _, e := range s.Edits {
		if e.Old != nil {
			out = append(out, e.Old)
		}
	}
	return out
}

func (s *Script) String() string {
	lines := make([]string, len(s.Edits))
	for i, e := range s.Edits {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// Validate checks that the edits can be applied in order to the current tree.
// It simulates child counts and detachments without touching any node.
func (s *Script) Validate() error {
	counts := make(map[*Node]int)
	removed := make(map[*Node]bool)
	placed := make(map[*Node]bool)

	count := func(parent *Node) int {
		if c, ok := counts[parent]; ok {
			return c
		}
		c := parent.ChildCount()
		counts[parent] = c
		return c
	}

	checkNew := func(i int, n *Node) error {
		if n == nil {
			return fmt.Errorf("edit %d: missing new node: %w", i, ErrInvalidEdit)
		}
		if n.Parent != nil || placed[n] {
			return fmt.Errorf("edit %d: node %d is already attached: %w", i, n.ID, ErrInvalidEdit)
		}
		placed[n] = true
		return nil
	}

	checkOld := func(i int, e Edit) error {
		if e.Old == nil || e.Parent == nil {
			return fmt.Errorf("edit %d: missing old node or parent: %w", i, ErrInvalidEdit)
		}
		if e.Old.Parent != e.Parent || removed[e.Old] {
			return fmt.Errorf("edit %d: node %d is not a child of %d: %w", i, e.Old.ID, e.Parent.ID, ErrInvalidEdit)
		}
		return nil
	}

	for i, e := range s.Edits {
		switch e.Kind {
		case EditDelete:
			if err := checkOld(i, e); err != nil {
				return err
			}
			counts[e.Parent] = count(e.Parent) - 1
			removed[e.Old] = true
		case EditInsert:
			if e.Parent == nil || removed[e.Parent] {
				return fmt.Errorf("edit %d: missing parent: %w", i, ErrInvalidEdit)
			}
			if e.Index < 0 || e.Index > count(e.Parent) {
				return fmt.Errorf("edit %d: index %d out of range [0, %d]: %w",
					i, e.Index, count(e.Parent), ErrInvalidEdit)
			}
			if err := checkNew(i, e.New); err != nil {
				return err
			}
			counts[e.Parent] = count(e.Parent) + 1
		case EditReplace:
			if err := checkOld(i, e); err != nil {
				return err
			}
			if err := checkNew(i, e.New); err != nil {
				return err
			}
			removed[e.Old] = true
		default:
			return fmt.Errorf("edit %d: unknown kind %d: %w", i, e.Kind, ErrInvalidEdit)
		}
	}

	return nil
}

// Apply validates the script and then performs every edit in order.
// When validation fails the tree is left untouched.
func (s *Script) Apply() error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("apply script: %w", err)
	}

	for _, e := range s.Edits {
		switch e.Kind {
		case EditDelete:
			RemoveChild(e.Parent, e.Old)
		case EditInsert:
			InsertAt(e.Parent, e.New, e.Index)
		case EditReplace:
			ReplaceChild(e.Parent, e.Old, e.New)
		}
	}

	return nil
}
