package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/syntax"
	"github.com/yaklabco/syntree/pkg/treediff"
)

// ErrRootMismatch is returned by Merge when the old and new roots differ in type.
var ErrRootMismatch = errors.New("root types differ")

// heavyTree adapts ast.Node to the old side of a diff.
type heavyTree struct{}

func (heavyTree) Children(n *ast.Node) []*ast.Node {
	return n.Children()
}

func (heavyTree) IsLeaf(n *ast.Node) bool {
	return n.IsLeaf() || n.IsCollapsed()
}

// comparator settles old/new node pairs for the diff.
type comparator struct {
	custom CustomComparator
	tree   *LightTree
}

func (c comparator) DeepEqual(oldNode *ast.Node, newNode LightNode) treediff.ThreeState {
	oldIsError := oldNode.IsError()
	newIsError := newNode.Type() == syntax.Error
	if oldIsError != newIsError {
		return treediff.No
	}
	if oldIsError {
		if msg, _ := newNode.ErrorMessage(); msg == oldNode.ErrorMessage() {
			return treediff.Unsure
		}
		return treediff.No
	}

	if newNode.IsToken() {
		if oldNode.IsLeaf() {
			if oldNode.Type.IsWrapper() != newNode.Type().IsWrapper() {
				return treediff.No
			}
			return yesIf(oldNode.TextMatches(newNode.leafText()))
		}
		if newNode.IsLazy() {
			switch {
			case oldNode.TextMatches(newNode.Text()):
				return treediff.Yes
			case oldNode.IsCollapsed():
				return treediff.No
			default:
				return treediff.Unsure
			}
		}
	}

	if c.custom != nil {
		return c.custom(oldNode, newNode, c.tree)
	}
	return treediff.Unsure
}

func (c comparator) TypesEqual(oldNode *ast.Node, newNode LightNode) bool {
	if oldNode.Whitespace {
		t := newNode.Type()
		return syntax.AnyWhitespace().Contains(t) ||
			newNode.IsToken() && newNode.tok.b.whitespace.Contains(t)
	}
	return oldNode.Type.Deref() == newNode.Type().Deref()
}

func (c comparator) HashesEqual(oldNode *ast.Node, newNode LightNode) bool {
	if oldNode.IsLeaf() && newNode.IsToken() {
		if oldNode.Type.IsWrapper() != newNode.Type().IsWrapper() {
			return false
		}
		return oldNode.TextMatches(newNode.leafText())
	}

	if oldNode.IsError() && newNode.Type() == syntax.Error {
		if msg, _ := newNode.ErrorMessage(); msg != oldNode.ErrorMessage() {
			return false
		}
	}

	return oldNode.Hash() == newNode.Hash()
}

func yesIf(ok bool) treediff.ThreeState {
	if ok {
		return treediff.Yes
	}
	return treediff.No
}

// scriptBuilder records diff results as heavy edits, converting new light
// nodes while their markers are alive.
type scriptBuilder struct {
	script *ast.Script
}

func (s *scriptBuilder) NodeDeleted(oldParent, oldNode *ast.Node) {
	s.script.Delete(oldParent, oldNode)
}

func (s *scriptBuilder) NodeInserted(oldParent *ast.Node, newNode LightNode, index int) {
	s.script.Insert(oldParent, convert(newNode), index)
}

func (s *scriptBuilder) NodeReplaced(oldNode *ast.Node, newNode LightNode) {
	s.script.Replace(oldNode, convert(newNode))
}

// convert builds the heavy subtree for a light node.
func convert(n LightNode) *ast.Node {
	if n.tok != nil {
		return n.tok.b.createLeaf(n.tok.typ, n.tok.start, n.tok.end)
	}
	rec := n.record()
	if rec.kind == kindError {
		return ast.NewError(rec.message)
	}
	node := n.b.composite(n.id)
	n.b.bind(n.id, node)
	return node
}

// Merge diffs the parsed log against old and returns the edit script that
// makes old match it. The script is validated but not applied, and old is not
// modified. Merge releases the builder.
//
// Merge returns ErrTooDeep when either tree exceeds the depth limit and
// ErrRootMismatch when the roots differ; build a fresh tree in that case.
func (b *Builder) Merge(ctx context.Context, old *ast.Node) (*ast.Script, error) {
	if b.spent {
		return nil, ErrBuilderSpent
	}
	defer b.Release()

	root, depth, err := b.prepare()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if old.TooDeep || depth > b.settings.depthLimit {
		return nil, fmt.Errorf("merge: depth %d, limit %d: %w", depth, b.settings.depthLimit, ErrTooDeep)
	}

	tree := b.newLightTree(root, nil)
	if rootType := tree.Root().Type(); rootType != old.Type {
		return nil, fmt.Errorf("merge: %s vs %s: %w", old.Type, rootType, ErrRootMismatch)
	}

	out := &scriptBuilder{script: &ast.Script{}}
	cmp := comparator{custom: b.settings.comparator, tree: tree}
	if err := treediff.Diff[*ast.Node, LightNode](ctx, heavyTree{}, tree, old, tree.Root(), cmp, out); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := tree.Err(); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := out.script.Validate(); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	return out.script, nil
}

// Result is the outcome of Reparse.
type Result struct {
	// Tree is the updated tree: old patched in place, or a fresh tree.
	Tree *ast.Node

	// Script holds the applied edits of an incremental reparse.
	Script *ast.Script

	// Incremental is false when a full parse replaced the old tree.
	Incremental bool
}

// Reparse parses text and patches old in place to match it. When the merge is
// not possible it falls back to a full parse and returns the new tree.
func Reparse(ctx context.Context, def Definition, old *ast.Node, text string, opts ...Option) (Result, error) {
	b, err := New(def, text, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("reparse: %w", err)
	}
	def.Parse(b, def.Root)

	script, err := b.Merge(ctx, old)
	switch {
	case err == nil:
		if err := script.Apply(); err != nil {
			return Result{}, fmt.Errorf("reparse: %w", err)
		}
		return Result{Tree: old, Script: script, Incremental: true}, nil

	case errors.Is(err, ErrTooDeep), errors.Is(err, ErrRootMismatch),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b.settings.logger.Debug("incremental merge skipped, parsing from scratch",
			logging.FieldLanguage, def.Name,
			logging.FieldDepth, b.settings.depthLimit,
			logging.FieldReason, err,
		)
		tree, err := Parse(def, text, opts...)
		if err != nil {
			return Result{}, fmt.Errorf("reparse: %w", err)
		}
		return Result{Tree: tree}, nil

	default:
		return Result{}, err
	}
}
