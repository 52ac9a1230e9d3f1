package treediff_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/treediff"
)

type tnode struct {
	typ  string
	text string
	kids []*tnode
}

func leaf(typ, text string) *tnode { return &tnode{typ: typ, text: text} }

func comp(typ string, kids ...*tnode) *tnode { return &tnode{typ: typ, kids: kids} }

func (n *tnode) hash() int {
	if n.kids == nil {
		h := 0
		for i := 0; i < len(n.text); i++ {
			h += int(n.text[i])
		}
		return h
	}
	h := 0
	for _, k := range n.kids {
		h += k.hash()
	}
	return h
}

func (n *tnode) label() string {
	if n.kids == nil {
		return n.typ + ":" + n.text
	}
	return n.typ
}

type structure struct {
	handedOut int
	disposed  int
}

func (s *structure) Children(n *tnode) []*tnode {
	s.handedOut++
	return n.kids
}

func (s *structure) DisposeChildren([]*tnode) { s.disposed++ }

func (s *structure) IsLeaf(n *tnode) bool { return n.kids == nil }

type comparator struct{}

func (comparator) DeepEqual(o, n *tnode) treediff.ThreeState {
	if o.kids == nil && n.kids == nil {
		if o.text == n.text {
			return treediff.Yes
		}
		return treediff.No
	}
	return treediff.Unsure
}

func (comparator) TypesEqual(o, n *tnode) bool { return o.typ == n.typ }

func (comparator) HashesEqual(o, n *tnode) bool { return o.hash() == n.hash() }

type recorder struct {
	edits []string
}

func (r *recorder) NodeDeleted(parent, old *tnode) {
	r.edits = append(r.edits, fmt.Sprintf("delete %s from %s", old.label(), parent.label()))
}

func (r *recorder) NodeInserted(parent, n *tnode, index int) {
	r.edits = append(r.edits, fmt.Sprintf("insert %s into %s at %d", n.label(), parent.label(), index))
}

func (r *recorder) NodeReplaced(old, n *tnode) {
	r.edits = append(r.edits, fmt.Sprintf("replace %s with %s", old.label(), n.label()))
}

func diff(t *testing.T, oldRoot, newRoot *tnode) []string {
	t.Helper()

	oldTree := &structure{}
	newTree := &structure{}
	rec := &recorder{}

	err := treediff.Diff(context.Background(), oldTree, newTree, oldRoot, newRoot, comparator{}, rec)
	require.NoError(t, err)
	assert.Equal(t, newTree.handedOut, newTree.disposed, "every child list is disposed")

	return rec.edits
}

// expr builds (FILE (EXPR (REF a) + (REF b))).
func expr(a, b string) *tnode {
	return comp("FILE", comp("EXPR",
		comp("REF", leaf("ID", a)),
		leaf("PLUS", "+"),
		comp("REF", leaf("ID", b)),
	))
}

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		oldRoot *tnode
		newRoot *tnode
		want    []string
	}{
		{
			name:    "identical",
			oldRoot: expr("a", "b"),
			newRoot: expr("a", "b"),
			want:    nil,
		},
		{
			name:    "leaf text change",
			oldRoot: expr("a", "b"),
			newRoot: expr("a", "bc"),
			want:    []string{"replace ID:b with ID:bc"},
		},
		{
			name:    "leading leaf change",
			oldRoot: expr("a", "b"),
			newRoot: expr("x", "b"),
			want:    []string{"replace ID:a with ID:x"},
		},
		{
			name:    "append",
			oldRoot: comp("LIST", leaf("ID", "a")),
			newRoot: comp("LIST", leaf("ID", "a"), leaf("ID", "b"), leaf("ID", "c")),
			want:    []string{"insert ID:b into LIST at 1", "insert ID:c into LIST at 2"},
		},
		{
			name:    "delete middle",
			oldRoot: comp("LIST", leaf("ID", "a"), leaf("ID", "b"), leaf("ID", "c")),
			newRoot: comp("LIST", leaf("ID", "a"), leaf("ID", "c")),
			want:    []string{"delete ID:b from LIST"},
		},
		{
			name:    "insert middle keeps suffix",
			oldRoot: comp("LIST", leaf("ID", "a"), leaf("ID", "c")),
			newRoot: comp("LIST", leaf("ID", "a"), leaf("ID", "b"), leaf("ID", "c")),
			want:    []string{"insert ID:b into LIST at 1"},
		},
		{
			name:    "type change replaces subtree",
			oldRoot: comp("FILE", comp("REF", leaf("ID", "a"))),
			newRoot: comp("FILE", comp("CALL", leaf("ID", "a"))),
			want:    []string{"replace REF with CALL"},
		},
		{
			name:    "composite over leaf replaces",
			oldRoot: comp("FILE", leaf("REF", "a")),
			newRoot: comp("FILE", comp("REF", leaf("ID", "a"), leaf("ID", "b"))),
			want:    []string{"replace REF:a with REF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, diff(t, tt.oldRoot, tt.newRoot))
		})
	}
}

func TestDiff_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	err := treediff.Diff(ctx, &structure{}, &structure{}, expr("a", "b"), expr("a", "c"), comparator{}, rec)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.edits)
}

func TestThreeState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "YES", treediff.Yes.String())
	assert.Equal(t, "NO", treediff.No.String())
	assert.Equal(t, "UNSURE", treediff.Unsure.String())
}
