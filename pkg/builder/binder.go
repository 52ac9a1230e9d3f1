package builder

import (
	"strings"

	"github.com/yaklabco/syntree/pkg/syntax"
)

// TextGetter returns the text of the i-th token of a trivia window.
type TextGetter func(i int) string

// EdgeBinder decides where a node boundary falls inside the run of trivia
// tokens around it. It returns a position in [0, len(tokens)]; tokens before
// the position precede the boundary and the rest follow it. atStreamEdge is
// true when the window touches the start or end of input.
//
// Binders must depend only on their arguments; assembly may run them again.
type EdgeBinder interface {
	EdgePosition(tokens []syntax.ElementType, atStreamEdge bool, text TextGetter) int
}

// BinderFunc adapts a function to EdgeBinder.
type BinderFunc func(tokens []syntax.ElementType, atStreamEdge bool, text TextGetter) int

// EdgePosition implements EdgeBinder.
func (f BinderFunc) EdgePosition(tokens []syntax.ElementType, atStreamEdge bool, text TextGetter) int {
	return f(tokens, atStreamEdge, text)
}

//nolint:gochecknoglobals // Stateless binders shared by every builder.
var (
	// DefaultLeft leaves all trivia outside the node at its start.
	DefaultLeft EdgeBinder = BinderFunc(func(tokens []syntax.ElementType, _ bool, _ TextGetter) int {
		return len(tokens)
	})

	// DefaultRight leaves all trivia outside the node at its end.
	DefaultRight EdgeBinder = BinderFunc(func([]syntax.ElementType, bool, TextGetter) int {
		return 0
	})

	// GreedyLeft pulls all preceding trivia into the node.
	GreedyLeft = DefaultRight

	// GreedyRight pulls all following trivia into the node.
	GreedyRight = DefaultLeft
)

// LeadingComments returns a start binder that pulls the comments directly
// above a node into it. A blank line between a comment and the node, or
// between two comments, stops the run.
func LeadingComments(comments syntax.TokenSet) EdgeBinder {
	return BinderFunc(func(tokens []syntax.ElementType, _ bool, text TextGetter) int {
		pos := len(tokens)
		for i := len(tokens) - 1; i >= 0; i-- {
			if comments.Contains(tokens[i]) {
				pos = i
				continue
			}
			if strings.Count(text(i), "\n") > 1 {
				break
			}
		}
		return pos
	})
}

// TrailingComments returns a done binder that keeps comments on the same line
// as the end of a node inside it.
func TrailingComments(comments syntax.TokenSet) EdgeBinder {
	return BinderFunc(func(tokens []syntax.ElementType, _ bool, text TextGetter) int {
		pos := 0
		for i, t := range tokens {
			if comments.Contains(t) {
				pos = i + 1
				continue
			}
			if strings.Contains(text(i), "\n") {
				break
			}
		}
		return pos
	})
}
