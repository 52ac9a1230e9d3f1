// Package ast holds the heavyweight syntax tree produced by the builder and the
// edit scripts used to patch it in place after an incremental reparse.
package ast

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/yaklabco/syntree/pkg/syntax"
)

//go:generate stringer -type=Kind -trimprefix=Kind

// Kind classifies the shape of a node.
type Kind uint8

const (
	// KindComposite nodes own an ordered list of children.
	KindComposite Kind = iota

	// KindLeaf nodes own a span of text.
	KindLeaf

	// KindLazy nodes hold text until Expand gives them children.
	KindLazy
)

//nolint:gochecknoglobals // Node identities are unique per process.
var nextID atomic.Uint64

// Node is a single node of a syntax tree.
// Nodes form a tree with parent/child/sibling links. Mutate the links through
// the helpers in this package so cached text lengths and hashes stay valid.
type Node struct {
	// Kind is the node shape.
	Kind Kind

	// Type is the element type.
	Type syntax.ElementType

	// ID is unique for the life of the process and never reused.
	ID uint64

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Whitespace is set on leaves whose type is whitespace for the language.
	Whitespace bool

	// TooDeep is set on a root whose nesting exceeded the depth limit.
	// Incremental merges against such a tree are skipped.
	TooDeep bool

	text    string
	message string

	cacheValid bool
	hash       int
	length     int
}

// NewComposite creates a composite node of type t.
func NewComposite(t syntax.ElementType) *Node {
	return &Node{Kind: KindComposite, Type: t, ID: nextID.Add(1)}
}

// NewLeaf creates a leaf holding text.
func NewLeaf(t syntax.ElementType, text string) *Node {
	return &Node{Kind: KindLeaf, Type: t, ID: nextID.Add(1), text: text}
}

// NewLazy creates a lazily parsed node holding text.
func NewLazy(t syntax.ElementType, text string) *Node {
	return &Node{Kind: KindLazy, Type: t, ID: nextID.Add(1), text: text}
}

// NewError creates an error composite carrying message.
func NewError(message string) *Node {
	n := NewComposite(syntax.Error)
	n.message = message
	return n
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// IsError reports whether the node is an error element.
func (n *Node) IsError() bool {
	return n.Type == syntax.Error
}

// IsCollapsed reports whether the node is a lazy node that has not been expanded.
func (n *Node) IsCollapsed() bool {
	return n.Kind == KindLazy && n.FirstChild == nil
}

// ErrorMessage returns the message of an error element.
func (n *Node) ErrorMessage() string {
	return n.message
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// ChildAt returns the child at index i, or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	child := n.FirstChild
	for ; child != nil && i > 0; i-- {
		child = child.Next
	}
	return child
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.Next {
		if c == child {
			return i
		}
		i++
	}
	return -1
}

// Root returns the top of the tree containing n.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Text returns the text covered by the node.
func (n *Node) Text() string {
	if n.Kind != KindComposite && n.FirstChild == nil {
		return n.text
	}
	var sb strings.Builder
	sb.Grow(n.TextLength())
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.Kind != KindComposite && n.FirstChild == nil {
		sb.WriteString(n.text)
		return
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		child.writeText(sb)
	}
}

// TextMatches reports whether the node text equals text without building it.
func (n *Node) TextMatches(text string) bool {
	if n.TextLength() != len(text) {
		return false
	}
	return n.Text() == text
}

// TextLength returns the length of Text in bytes.
func (n *Node) TextLength() int {
	n.fillCache()
	return n.length
}

// StartOffset returns the offset of the node within its root.
func (n *Node) StartOffset() int {
	offset := 0
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		for sib := cur.Prev; sib != nil; sib = sib.Prev {
			offset += sib.TextLength()
		}
	}
	return offset
}

// EndOffset returns StartOffset plus TextLength.
func (n *Node) EndOffset() int {
	return n.StartOffset() + n.TextLength()
}

// Hash returns the structural checksum of the node: the byte sum of a leaf's
// text, or the sum of the children's hashes. Collisions are expected; it is
// only used to short-circuit comparisons.
func (n *Node) Hash() int {
	n.fillCache()
	return n.hash
}

func (n *Node) fillCache() {
	if n.cacheValid {
		return
	}
	hash, length := 0, 0
	if n.Kind != KindComposite && n.FirstChild == nil {
		for i := 0; i < len(n.text); i++ {
			hash += int(n.text[i])
		}
		length = len(n.text)
	} else {
		for child := n.FirstChild; child != nil; child = child.Next {
			hash += child.Hash()
			length += child.TextLength()
		}
	}
	n.hash, n.length, n.cacheValid = hash, length, true
}

// invalidate drops cached values on n and its ancestors.
func (n *Node) invalidate() {
	for cur := n; cur != nil && cur.cacheValid; cur = cur.Parent {
		cur.cacheValid = false
	}
}

// String renders the subtree as an s-expression, for diagnostics and tests.
// Leaves render as TYPE"text"; composites as (TYPE children...).
func (n *Node) String() string {
	var sb strings.Builder
	n.writeSexpr(&sb)
	return sb.String()
}

func (n *Node) writeSexpr(sb *strings.Builder) {
	if n.Kind == KindLeaf || n.IsCollapsed() {
		sb.WriteString(n.Type.String())
		sb.WriteString(strconv.Quote(n.text))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Type.String())
	if n.IsError() {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(n.message))
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		sb.WriteByte(' ')
		child.writeSexpr(sb)
	}
	sb.WriteByte(')')
}
