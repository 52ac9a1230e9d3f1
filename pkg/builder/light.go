package builder

import (
	"fmt"

	"github.com/yaklabco/syntree/pkg/syntax"
)

const (
	maxPooledTokens     = 1000
	maxPooledLazyTokens = 200
)

// Token is a flyweight leaf of a light tree. Tokens are pooled: a token is
// only valid until the slice holding it is passed to DisposeChildren.
type Token struct {
	b     *Builder
	typ   syntax.ElementType
	start int
	end   int
	lazy  bool

	// parsed caches the contents of a lazy token.
	parsed *LightTree
}

func (t *Token) reset() {
	*t = Token{lazy: t.lazy}
}

// tokenPools recycles tokens across Children calls.
type tokenPools struct {
	tokens []*Token
	lazy   []*Token
}

func (p *tokenPools) alloc(lazy bool) *Token {
	list := &p.tokens
	if lazy {
		list = &p.lazy
	}
	if n := len(*list); n > 0 {
		tok := (*list)[n-1]
		*list = (*list)[:n-1]
		return tok
	}
	return &Token{lazy: lazy}
}

func (p *tokenPools) recycle(tok *Token) {
	tok.reset()
	if tok.lazy {
		if len(p.lazy) < maxPooledLazyTokens {
			p.lazy = append(p.lazy, tok)
		}
		return
	}
	if len(p.tokens) < maxPooledTokens {
		p.tokens = append(p.tokens, tok)
	}
}

// LightNode is a node of a light tree: a start marker, an error item, or a
// token. The zero value is not a node.
type LightNode struct {
	b   *Builder
	id  int
	tok *Token
}

// IsZero reports whether n is the zero value.
func (n LightNode) IsZero() bool {
	return n.b == nil && n.tok == nil
}

// IsToken reports whether n is a leaf token.
func (n LightNode) IsToken() bool {
	return n.tok != nil
}

// IsLazy reports whether n is a lazily parsed token.
func (n LightNode) IsLazy() bool {
	return n.tok != nil && n.tok.lazy
}

func (n LightNode) record() *record {
	return n.b.slab.get(n.id)
}

// Type returns the element type of the node.
func (n LightNode) Type() syntax.ElementType {
	if n.tok != nil {
		return n.tok.typ
	}
	rec := n.record()
	if rec.kind == kindError {
		return syntax.Error
	}
	return rec.typ
}

// StartOffset returns the offset of the node in the outermost text.
func (n LightNode) StartOffset() int {
	if n.tok != nil {
		return n.tok.b.base + n.tok.start
	}
	return n.b.base + n.b.lex.Start(n.record().lexeme)
}

// EndOffset returns the end offset of the node in the outermost text.
// Error items are empty.
func (n LightNode) EndOffset() int {
	if n.tok != nil {
		return n.tok.b.base + n.tok.end
	}
	rec := n.record()
	if rec.kind == kindError {
		return n.b.base + n.b.lex.Start(rec.lexeme)
	}
	return n.b.base + n.b.lex.Start(n.b.slab.get(rec.done).lexeme)
}

// Text returns the source text covered by the node.
func (n LightNode) Text() string {
	if n.tok != nil {
		return n.tok.b.lex.Text[n.tok.start:n.tok.end]
	}
	rec := n.record()
	if rec.kind == kindError {
		return ""
	}
	return n.b.lex.Span(rec.lexeme, n.b.slab.get(rec.done).lexeme)
}

// leafText is the text a heavy leaf built from the token holds.
func (n LightNode) leafText() string {
	if value, ok := n.tok.typ.WrapperValue(); ok {
		return value
	}
	return n.Text()
}

// ErrorMessage returns the message of an error item or error marker.
func (n LightNode) ErrorMessage() (string, bool) {
	if n.tok != nil {
		return "", false
	}
	rec := n.record()
	switch rec.kind {
	case kindError:
		return rec.message, true
	case kindStart:
		if rec.typ != syntax.Error {
			return "", false
		}
		done := n.b.slab.get(rec.done)
		return done.message, done.hasMessage
	default:
		return "", false
	}
}

// Hash returns the structural checksum of the node. It matches ast.Node.Hash
// for the heavy node built from it.
func (n LightNode) Hash() int {
	if n.tok != nil {
		return byteSum(n.leafText())
	}
	rec := n.record()
	if rec.kind == kindError {
		return 0
	}
	return n.b.startHash(n.id)
}

func (n LightNode) String() string {
	if n.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s[%d,%d)", n.Type(), n.StartOffset(), n.EndOffset())
}

func (b *Builder) startHash(id int) int {
	rec := b.slab.get(id)
	if rec.hashValid {
		return rec.hash
	}

	hash := 0
	lex := rec.lexeme
	for child := rec.first; child != none; child = b.slab.get(child).next {
		crec := b.slab.get(child)
		hash += b.tokenHash(lex, crec.lexeme)
		lex = max(lex, crec.lexeme)
		if crec.kind == kindStart {
			done := b.slab.get(crec.done)
			if done.collapse {
				hash += byteSum(b.lex.Span(crec.lexeme, done.lexeme))
			} else {
				hash += b.startHash(child)
			}
			lex = done.lexeme
		}
	}
	hash += b.tokenHash(lex, b.slab.get(rec.done).lexeme)

	rec = b.slab.get(id)
	rec.hash, rec.hashValid = hash, true
	return hash
}

func (b *Builder) tokenHash(from, to int) int {
	hash := 0
	for i := from; i < min(to, b.lex.Count); i++ {
		if value, ok := b.lex.Types[i].WrapperValue(); ok {
			hash += byteSum(value)
			continue
		}
		hash += byteSum(b.lex.TokenText(i))
	}
	return hash
}

func byteSum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum
}

// keepsLeaf reports whether lexeme i becomes a node. Zero-length tokens are
// dropped unless their type asks to be kept.
func (b *Builder) keepsLeaf(i int) bool {
	return b.lex.Start(i) < b.lex.End(i) || b.lex.Types[i].Has(syntax.FlagLeaf)
}

// LightTree is a flyweight view of an assembled marker log. It stays valid
// until the builder is released.
type LightTree struct {
	b      *Builder
	root   int
	pools  *tokenPools
	parent *LightTree
	err    error
}

// Root returns the root node.
func (t *LightTree) Root() LightNode {
	return LightNode{b: t.b, id: t.root}
}

// Parent returns the parent of a start marker or error item.
// Tokens do not track their parent.
func (t *LightTree) Parent(n LightNode) (LightNode, bool) {
	if n.tok != nil || n.IsZero() {
		return LightNode{}, false
	}
	parent := n.record().parent
	if parent == none {
		return LightNode{}, false
	}
	return LightNode{b: n.b, id: parent}, true
}

// IsLeaf reports whether n has no children to descend into.
func (t *LightTree) IsLeaf(n LightNode) bool {
	if n.tok != nil {
		return !n.tok.lazy
	}
	return n.record().kind == kindError
}

// Err returns the first error met while parsing lazy tokens.
func (t *LightTree) Err() error {
	for t.parent != nil {
		t = t.parent
	}
	return t.err
}

func (t *LightTree) setErr(err error) {
	for t.parent != nil {
		t = t.parent
	}
	if t.err == nil {
		t.err = err
	}
}

// Children returns the children of n. Token children come from the pool; hand
// the slice back with DisposeChildren when done with it.
func (t *LightTree) Children(n LightNode) []LightNode {
	if n.tok != nil {
		if !n.tok.lazy {
			return nil
		}
		nested := t.parseLazy(n.tok)
		if nested == nil {
			return nil
		}
		return nested.Children(nested.Root())
	}

	b := n.b
	rec := b.slab.get(n.id)
	if rec.kind != kindStart {
		return nil
	}

	var out []LightNode
	lex := rec.lexeme
	for child := rec.first; child != none; child = b.slab.get(child).next {
		crec := b.slab.get(child)
		out = t.appendTokens(out, b, lex, crec.lexeme)
		lex = max(lex, crec.lexeme)

		if crec.kind == kindStart {
			done := b.slab.get(crec.done)
			if done.collapse {
				out = append(out, t.token(b, crec.typ, b.lex.Start(crec.lexeme), b.lex.Start(done.lexeme)))
			} else {
				out = append(out, LightNode{b: b, id: child})
			}
			lex = done.lexeme
			continue
		}
		out = append(out, LightNode{b: b, id: child})
	}
	return t.appendTokens(out, b, lex, b.slab.get(rec.done).lexeme)
}

func (t *LightTree) appendTokens(out []LightNode, b *Builder, from, to int) []LightNode {
	for i := from; i < min(to, b.lex.Count); i++ {
		if b.keepsLeaf(i) {
			out = append(out, t.token(b, b.lex.Types[i], b.lex.Start(i), b.lex.End(i)))
		}
	}
	return out
}

func (t *LightTree) token(b *Builder, typ syntax.ElementType, start, end int) LightNode {
	tok := t.pools.alloc(typ.IsLazy())
	tok.b, tok.typ, tok.start, tok.end = b, typ, start, end
	return LightNode{b: b, id: none, tok: tok}
}

// DisposeChildren returns the tokens in nodes to the pool.
func (t *LightTree) DisposeChildren(nodes []LightNode) {
	for _, n := range nodes {
		if n.tok != nil {
			t.pools.recycle(n.tok)
		}
	}
}

// parseLazy parses the contents of a lazy token once. Failures are recorded
// on the tree and yield nil.
func (t *LightTree) parseLazy(tok *Token) *LightTree {
	if tok.parsed != nil {
		return tok.parsed
	}

	owner := tok.b
	def, ok := owner.def.lazyDefinition(tok.typ)
	if !ok || def.Parse == nil {
		t.setErr(fmt.Errorf("%w: %s", ErrNoLazyDefinition, tok.typ))
		return nil
	}

	nested, err := owner.nested(def, tok)
	if err != nil {
		t.setErr(fmt.Errorf("lazy %s at %d: %w", tok.typ, owner.base+tok.start, err))
		return nil
	}
	def.Parse(nested, tok.typ)

	tree, err := nested.lightTree(t)
	if err != nil {
		t.setErr(fmt.Errorf("lazy %s at %d: %w", tok.typ, owner.base+tok.start, err))
		return nil
	}
	if root := tree.Root(); root.Type() != tok.typ {
		t.setErr(fmt.Errorf("lazy %s at %d: %w: root closed as %s",
			tok.typ, owner.base+tok.start, ErrUnbalanced, root.Type()))
		return nil
	}

	tok.parsed = tree
	return tree
}

// nested returns a builder over the text of a lazy token that shares this
// builder's settings.
func (b *Builder) nested(def Definition, tok *Token) (*Builder, error) {
	opts := []Option{
		WithDebug(b.settings.debug),
		WithDepthLimit(b.settings.depthLimit),
		WithLogger(b.settings.logger),
		WithComparator(b.settings.comparator),
	}
	nested, err := New(def, b.lex.Text[tok.start:tok.end], opts...)
	if err != nil {
		return nil, err
	}
	nested.base = b.base + tok.start
	return nested, nil
}

// LightTree assembles the log and returns a flyweight view of it. Calling it
// again without further parsing returns an equivalent tree.
func (b *Builder) LightTree() (*LightTree, error) {
	return b.lightTree(nil)
}

func (b *Builder) lightTree(parent *LightTree) (*LightTree, error) {
	if b.spent {
		return nil, ErrBuilderSpent
	}
	root, _, err := b.prepare()
	if err != nil {
		return nil, err
	}
	return b.newLightTree(root, parent), nil
}

func (b *Builder) newLightTree(root int, parent *LightTree) *LightTree {
	tree := &LightTree{b: b, root: root, parent: parent}
	switch {
	case parent != nil:
		tree.pools = parent.pools
	case b.pools != nil:
		tree.pools = b.pools
	default:
		b.pools = &tokenPools{}
		tree.pools = b.pools
	}
	return tree
}

// walkLight visits every node of the light tree depth first, disposing of
// children as it goes. It stops at the first error from fn.
func walkLight(t *LightTree, n LightNode, fn func(n LightNode, depth int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	kids := t.Children(n)
	defer t.DisposeChildren(kids)
	for _, kid := range kids {
		if err := walkLight(t, kid, fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every node in document order with its depth below the root.
// Nodes passed to fn are only valid during the call.
func (t *LightTree) Walk(fn func(n LightNode, depth int) error) error {
	if err := walkLight(t, t.Root(), fn, 0); err != nil {
		return err
	}
	return t.Err()
}
