package reporter

import (
	"strconv"
	"strings"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/runner"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// viewNode is a detached copy of a tree node that outlives the tree it was
// read from. Light trees recycle their nodes, so every output format works
// on views.
type viewNode struct {
	Type    string
	Start   int
	End     int
	Text    string
	Token   bool
	Lazy    bool
	Error   bool
	Message string
	Kids    []*viewNode
}

// outcomeView returns the view of whichever tree the outcome holds.
func outcomeView(outcome *runner.FileOutcome) *viewNode {
	switch {
	case outcome.Tree != nil:
		return heavyView(outcome.Tree)
	case outcome.Light != nil:
		return lightView(outcome.Light, outcome.Light.Root())
	default:
		return nil
	}
}

// heavyView copies n. Collapsed lazy nodes stay collapsed.
func heavyView(n *ast.Node) *viewNode {
	view := &viewNode{
		Type:  n.Type.String(),
		Start: n.StartOffset(),
		End:   n.EndOffset(),
		Lazy:  n.Kind == ast.KindLazy,
	}
	switch {
	case n.IsError():
		view.Error, view.Message = true, n.ErrorMessage()
	case n.IsLeaf(), n.IsCollapsed():
		view.Token, view.Text = true, n.Text()
		return view
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		view.Kids = append(view.Kids, heavyView(child))
	}
	return view
}

// lightView copies n. Lazy tokens are parsed and copied with their nested
// children.
func lightView(tree *builder.LightTree, n builder.LightNode) *viewNode {
	view := &viewNode{
		Type:  n.Type().String(),
		Start: n.StartOffset(),
		End:   n.EndOffset(),
		Lazy:  n.IsLazy(),
	}
	if msg, ok := n.ErrorMessage(); ok || n.Type() == syntax.Error {
		view.Error, view.Message = true, msg
	}
	if n.IsToken() && !n.IsLazy() {
		view.Token, view.Text = true, n.Text()
		return view
	}

	kids := tree.Children(n)
	defer tree.DisposeChildren(kids)
	for _, kid := range kids {
		view.Kids = append(view.Kids, lightView(tree, kid))
	}
	if view.Lazy && len(view.Kids) == 0 {
		view.Token, view.Text = true, n.Text()
	}
	return view
}

// lines flattens the view into tree dump lines in document order.
func (v *viewNode) lines(depth int, out []pretty.TreeLine) []pretty.TreeLine {
	out = append(out, pretty.TreeLine{
		Depth:   depth,
		Type:    v.Type,
		Start:   v.Start,
		End:     v.End,
		Text:    v.Text,
		Token:   v.Token,
		Lazy:    v.Lazy,
		Error:   v.Error,
		Message: v.Message,
	})
	for _, kid := range v.Kids {
		out = kid.lines(depth+1, out)
	}
	return out
}

// sexpr renders the view the way ast.Node.String renders a heavy tree.
func (v *viewNode) sexpr() string {
	var sb strings.Builder
	v.writeSexpr(&sb)
	return sb.String()
}

func (v *viewNode) writeSexpr(sb *strings.Builder) {
	if v.Token {
		sb.WriteString(v.Type)
		sb.WriteString(strconv.Quote(v.Text))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(v.Type)
	if v.Error {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(v.Message))
	}
	for _, kid := range v.Kids {
		sb.WriteByte(' ')
		kid.writeSexpr(sb)
	}
	sb.WriteByte(')')
}
