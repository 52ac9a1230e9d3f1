package builder

import (
	"fmt"

	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// prepare balances the log and links it into a tree rooted at the first
// marker. It returns the root record and the deepest nesting below it.
func (b *Builder) prepare() (int, int, error) {
	b.checked = true
	if len(b.production) == 0 {
		return none, 0, fmt.Errorf("assemble: no root marker: %w", ErrUnbalanced)
	}
	if err := b.balance(); err != nil {
		return none, 0, fmt.Errorf("assemble: %w", err)
	}

	root := b.production[0]
	rootRec := b.slab.get(root)
	if rootRec.kind != kindStart || rootRec.done == none {
		return none, 0, fmt.Errorf("assemble: root marker is not closed: %w", ErrUnbalanced)
	}
	b.unlink(root)

	var (
		stack     []int
		cur       = root
		closed    bool
		lastError = -1
		depth     int
		maxDepth  int
	)
	for _, id := range b.production[1:] {
		if closed {
			return none, 0, fmt.Errorf("assemble: markers logged after the root was closed: %w", ErrUnbalanced)
		}

		rec := b.slab.get(id)
		switch rec.kind {
		case kindStart:
			b.unlink(id)
			b.link(cur, id)
			stack = append(stack, cur)
			cur = id
			depth++
			maxDepth = max(maxDepth, depth)

		case kindDone:
			if rec.start != cur {
				return none, 0, fmt.Errorf("assemble: %s marker closed out of order: %w",
					b.slab.get(rec.start).typ, ErrUnbalanced)
			}
			if cur == root {
				closed = true
				continue
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			depth--

		case kindError:
			if rec.lexeme == lastError {
				continue
			}
			lastError = rec.lexeme
			b.unlink(id)
			b.link(cur, id)

		case kindFree:
			return none, 0, fmt.Errorf("assemble: recycled marker in the log: %w", ErrUnbalanced)
		}
	}

	if b.current < b.lex.Count {
		return none, 0, fmt.Errorf("assemble: %w: %v", ErrTokensNotInserted, b.lex.TypesIn(b.current, b.lex.Count))
	}
	if !closed {
		return none, 0, fmt.Errorf("assemble: root marker is not the last one closed: %w", ErrUnbalanced)
	}

	return root, maxDepth, nil
}

func (b *Builder) unlink(id int) {
	rec := b.slab.get(id)
	rec.parent, rec.first, rec.last, rec.next = none, none, none, none
	rec.hashValid = false
}

func (b *Builder) link(parent, child int) {
	p := b.slab.get(parent)
	b.slab.get(child).parent = parent
	if p.first == none {
		p.first = child
	} else {
		b.slab.get(p.last).next = child
	}
	p.last = child
}

// TreeBuilt assembles the log into a heavy tree and releases the builder.
// The concatenated leaf text of the result is the input text.
func (b *Builder) TreeBuilt() (*ast.Node, error) {
	if b.spent {
		return nil, ErrBuilderSpent
	}
	defer b.Release()

	root, depth, err := b.prepare()
	if err != nil {
		return nil, err
	}

	node := b.composite(root)
	b.bind(root, node)
	if depth > b.settings.depthLimit {
		node.TooDeep = true
	}
	return node, nil
}

// bind builds the heavy children of rootID under rootNode.
func (b *Builder) bind(rootID int, rootNode *ast.Node) {
	root := b.slab.get(rootID)
	rootDone := root.done
	curMarker, curNode := rootID, rootNode

	lex := root.lexeme
	item := root.first
	if item == none {
		item = rootDone
	}
	for {
		rec := b.slab.get(item)
		lex = b.insertLeaves(lex, rec.lexeme, curNode)
		if item == rootDone {
			break
		}

		switch rec.kind {
		case kindStart:
			if !b.slab.get(rec.done).collapse {
				curMarker = item
				child := b.composite(item)
				ast.AppendChild(curNode, child)
				curNode = child

				if rec.first != none {
					item = rec.first
				} else {
					item = rec.done
				}
				continue
			}
			lex = b.collapseLeaves(curNode, item)

		case kindError:
			ast.AppendChild(curNode, ast.NewError(rec.message))

		case kindDone:
			curMarker = b.slab.get(rec.start).parent
			curNode = curNode.Parent
			item = rec.start
		}

		if next := b.slab.get(item).next; next != none {
			item = next
		} else {
			item = b.slab.get(curMarker).done
		}
	}
}

func (b *Builder) insertLeaves(cur, last int, parent *ast.Node) int {
	last = min(last, b.lex.Count)
	for ; cur < last; cur++ {
		if b.keepsLeaf(cur) {
			ast.AppendChild(parent, b.createLeaf(b.lex.Types[cur], b.lex.Start(cur), b.lex.End(cur)))
		}
	}
	return cur
}

func (b *Builder) collapseLeaves(parent *ast.Node, id int) int {
	rec := b.slab.get(id)
	done := b.slab.get(rec.done)
	ast.AppendChild(parent, b.createLeaf(rec.typ, b.lex.Start(rec.lexeme), b.lex.Start(done.lexeme)))
	return done.lexeme
}

func (b *Builder) createLeaf(t syntax.ElementType, start, end int) *ast.Node {
	text := b.lex.Text[start:end]
	if value, ok := t.WrapperValue(); ok {
		text = value
	}

	if b.whitespace.Contains(t) {
		leaf := ast.NewLeaf(t, text)
		leaf.Whitespace = true
		return leaf
	}
	if t.IsLazy() {
		return ast.NewLazy(t, text)
	}
	return ast.NewLeaf(t, text)
}

func (b *Builder) composite(id int) *ast.Node {
	rec := b.slab.get(id)
	if rec.typ == syntax.Error {
		return ast.NewError(b.slab.get(rec.done).message)
	}
	return ast.NewComposite(rec.typ)
}

// Parse runs the definition's grammar over text and returns the heavy tree.
func Parse(def Definition, text string, opts ...Option) (*ast.Node, error) {
	b, err := New(def, text, opts...)
	if err != nil {
		return nil, err
	}
	def.Parse(b, def.Root)
	return b.TreeBuilt()
}

// ParseLight runs the definition's grammar over text and returns the light
// tree. The tree keeps the builder alive; call Release when done with it.
func ParseLight(def Definition, text string, opts ...Option) (*LightTree, error) {
	b, err := New(def, text, opts...)
	if err != nil {
		return nil, err
	}
	def.Parse(b, def.Root)
	tree, err := b.LightTree()
	if err != nil {
		b.Release()
		return nil, err
	}
	return tree, nil
}

// Release releases the builder behind the tree. Nodes of the tree must not be
// used afterwards.
func (t *LightTree) Release() {
	t.b.Release()
}

// ExpandLazy parses the text of a collapsed lazy node with the definition
// registered for its type and attaches the result as its children.
func ExpandLazy(def Definition, node *ast.Node, opts ...Option) error {
	if !node.IsCollapsed() {
		return nil
	}

	lazyDef, ok := def.lazyDefinition(node.Type)
	if !ok || lazyDef.Parse == nil {
		return fmt.Errorf("expand %s: %w", node.Type, ErrNoLazyDefinition)
	}

	b, err := New(lazyDef, node.Text(), opts...)
	if err != nil {
		return fmt.Errorf("expand %s: %w", node.Type, err)
	}
	lazyDef.Parse(b, node.Type)
	parsed, err := b.TreeBuilt()
	if err != nil {
		return fmt.Errorf("expand %s: %w", node.Type, err)
	}

	if !ast.Expand(node, parsed.Children()) {
		return fmt.Errorf("expand %s: parsed children do not cover the text: %w", node.Type, ErrUnbalanced)
	}
	return nil
}
