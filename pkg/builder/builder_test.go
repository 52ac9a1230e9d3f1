package builder_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

func TestTreeBuilt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single reference",
			text: "a",
			want: `(BT_FILE (BT_REF BT_IDENT"a"))`,
		},
		{
			name: "binary expression",
			text: "a + b",
			want: `(BT_FILE (BT_BINARY (BT_REF BT_IDENT"a") BT_WS" " BT_PLUS"+" BT_WS" " (BT_REF BT_IDENT"b")))`,
		},
		{
			name: "left associative chain",
			text: "a+b+1",
			want: `(BT_FILE (BT_BINARY (BT_BINARY (BT_REF BT_IDENT"a") BT_PLUS"+" (BT_REF BT_IDENT"b")) BT_PLUS"+" (BT_LIT BT_NUM"1")))`,
		},
		{
			name: "leading and trailing whitespace stay in the root",
			text: "  a  ",
			want: `(BT_FILE BT_WS"  " (BT_REF BT_IDENT"a") BT_WS"  ")`,
		},
		{
			name: "missing paren reports an error item",
			text: "(a",
			want: `(BT_FILE (BT_PAREN BT_LPAREN"(" (BT_REF BT_IDENT"a") (ERROR_ELEMENT "')' expected")))`,
		},
		{
			name: "bad character becomes an error element",
			text: "a ?",
			want: `(BT_FILE (BT_REF BT_IDENT"a") BT_WS" " (ERROR_ELEMENT "unexpected token" BAD_CHARACTER"?"))`,
		},
		{
			name: "lazy token stays collapsed",
			text: "{a+b}",
			want: `(BT_FILE (BT_LIT BT_BLOCK"{a+b}"))`,
		},
		{
			name: "empty input",
			text: "",
			want: `(BT_FILE)`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, parseWith(t, testCase.text, nil))
		})
	}
}

func TestRoundTripText(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"a",
		"  a + b  ",
		"# comment\na + (b + 1)\n",
		"((a)) + ?? + {x + y} # trailing",
		"\n\n\n",
		"a b c d",
	}

	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			tree, err := builder.Parse(testDef(nil), text, builder.WithLogger(quietLogger()))
			require.NoError(t, err)
			assert.Equal(t, text, tree.Text())
			assert.Equal(t, len(text), tree.TextLength())
		})
	}
}

func TestLightTreeMatchesHeavyTree(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"a + b",
		"  (a + ?) # c\n b",
		"{a+b} + 1",
		"(a",
	}

	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			b := newBuilder(t, text)
			parseFile(b, tFile)

			first, err := b.LightTree()
			require.NoError(t, err)
			firstDump := dumpLight(first)
			firstHash := first.Root().Hash()

			second, err := b.LightTree()
			require.NoError(t, err)
			assert.Equal(t, firstDump, dumpLight(second), "light tree must be stable")

			heavy, err := b.TreeBuilt()
			require.NoError(t, err)
			assert.Equal(t, heavy.String(), firstDump)
			assert.Equal(t, heavy.Hash(), firstHash)
		})
	}
}

func TestLightNodeOffsets(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a + bc")
	parseFile(b, tFile)

	tree, err := b.LightTree()
	require.NoError(t, err)
	defer tree.Release()

	root := tree.Root()
	assert.Equal(t, 0, root.StartOffset())
	assert.Equal(t, 6, root.EndOffset())
	assert.False(t, root.IsToken())

	kids := tree.Children(root)
	require.Len(t, kids, 1)
	binary := kids[0]
	assert.Equal(t, tBinary, binary.Type())

	parent, ok := tree.Parent(binary)
	require.True(t, ok)
	assert.Equal(t, tFile, parent.Type())

	_, ok = tree.Parent(root)
	assert.False(t, ok)

	operands := tree.Children(binary)
	require.Len(t, operands, 5)
	last := operands[4]
	assert.Equal(t, tRef, last.Type())
	assert.Equal(t, 4, last.StartOffset())
	assert.Equal(t, 6, last.EndOffset())
	assert.Equal(t, "bc", last.Text())
	assert.Equal(t, int('b')+int('c'), last.Hash())

	plus := operands[2]
	assert.True(t, plus.IsToken())
	assert.True(t, tree.IsLeaf(plus))
	assert.Equal(t, "+", plus.Text())

	tree.DisposeChildren(operands)
	tree.DisposeChildren(kids)
}

func TestLazyLightChildren(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "x + {a+b}")
	parseFile(b, tFile)

	tree, err := b.LightTree()
	require.NoError(t, err)
	defer tree.Release()

	var found []string
	require.NoError(t, tree.Walk(func(n builder.LightNode, depth int) error {
		if n.Type() == tRef {
			found = append(found, n.Text())
			assert.Positive(t, depth)
		}
		if n.Type() == tBinary && n.StartOffset() == 5 {
			assert.Equal(t, 8, n.EndOffset())
			assert.Equal(t, "a+b", n.Text())
		}
		return nil
	}))
	assert.Equal(t, []string{"x", "a", "b"}, found)
}

func TestLazyWithoutDefinition(t *testing.T) {
	t.Parallel()

	def := testDef(nil)
	def.Lazy = nil
	b, err := builder.New(def, "{a}", builder.WithLogger(quietLogger()))
	require.NoError(t, err)
	parseFile(b, tFile)

	tree, err := b.LightTree()
	require.NoError(t, err)

	err = tree.Walk(func(builder.LightNode, int) error { return nil })
	require.ErrorIs(t, err, builder.ErrNoLazyDefinition)
}

func TestExpandLazy(t *testing.T) {
	t.Parallel()

	def := testDef(nil)
	tree, err := builder.Parse(def, "{a+b}", builder.WithLogger(quietLogger()))
	require.NoError(t, err)

	block := tree.FirstChild.FirstChild
	require.True(t, block.IsCollapsed())

	require.NoError(t, builder.ExpandLazy(def, block, builder.WithLogger(quietLogger())))
	assert.False(t, block.IsCollapsed())
	assert.Equal(t,
		`(BT_BLOCK BT_LBRACE"{" (BT_BINARY (BT_REF BT_IDENT"a") BT_PLUS"+" (BT_REF BT_IDENT"b")) BT_RBRACE"}")`,
		block.String())
	assert.Equal(t, "{a+b}", tree.Text())
}

func TestUnbalancedMarkerFailsAssembly(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a b")
	root := b.Mark()
	b.Mark()
	for !b.EOF() {
		b.AdvanceLexer()
	}
	root.Done(tFile)

	tree, err := b.TreeBuilt()
	require.ErrorIs(t, err, builder.ErrUnbalanced)
	assert.Nil(t, tree)

	_, err = b.TreeBuilt()
	require.ErrorIs(t, err, builder.ErrBuilderSpent)
}

func TestRootNotClosedLast(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a")
	root := b.Mark()
	inner := b.Mark()
	root.Done(tFile)
	b.TokenType()
	b.AdvanceLexer()
	inner.Done(tRef)

	_, err := b.TreeBuilt()
	require.ErrorIs(t, err, builder.ErrUnbalanced)
}

func TestTokensNotInserted(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a b")
	root := b.Mark()
	b.TokenType()
	b.AdvanceLexer()
	root.Done(tFile)

	_, err := b.LightTree()
	require.ErrorIs(t, err, builder.ErrTokensNotInserted)
}

func TestDepthLimitFlagsRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limit   int
		tooDeep bool
	}{
		{"under the limit", 10, false},
		{"at the limit", 4, false},
		{"over the limit", 3, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			// FILE > PAREN > PAREN > PAREN > REF: four levels below the root.
			tree, err := builder.Parse(testDef(nil), "(((a)))",
				builder.WithLogger(quietLogger()), builder.WithDepthLimit(testCase.limit))
			require.NoError(t, err)
			assert.Equal(t, testCase.tooDeep, tree.TooDeep)
		})
	}
}

func TestLexerErrorIsReturned(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	def := testDef(nil)
	def.NewLexer = func() lexeme.Lexer {
		return lexeme.NewScanLexer(func(string, int) (syntax.ElementType, int, error) {
			return syntax.None, 0, boom
		})
	}

	_, err := builder.New(def, "a", builder.WithLogger(quietLogger()))
	require.ErrorIs(t, err, boom)

	def.NewLexer = nil
	_, err = builder.New(def, "a")
	require.Error(t, err)
}

// sliceLexer replays fixed lexemes, allowing zero-length tokens.
type sliceLexer struct {
	lexemes []lexeme.Lexeme
	next    int
}

func (l *sliceLexer) Reset(string) { l.next = 0 }

func (l *sliceLexer) Next() (lexeme.Lexeme, error) {
	if l.next >= len(l.lexemes) {
		return lexeme.Lexeme{}, io.EOF
	}
	lx := l.lexemes[l.next]
	l.next++
	return lx, nil
}

func TestZeroLengthTokens(t *testing.T) {
	t.Parallel()

	def := testDef(func(b *builder.Builder, root syntax.ElementType) {
		m := b.Mark()
		for !b.EOF() {
			b.AdvanceLexer()
		}
		m.Done(root)
	})
	def.NewLexer = func() lexeme.Lexer {
		return &sliceLexer{lexemes: []lexeme.Lexeme{
			{Type: tIdent, Start: 0},
			{Type: tIndent, Start: 1},
			{Type: tMarker, Start: 1},
			{Type: tSemi, Start: 1},
			{Type: tIdent, Start: 1},
		}}
	}

	tree, err := builder.Parse(def, "ab", builder.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, `(BT_FILE BT_IDENT"a" BT_INDENT"" BT_SEMI";" BT_IDENT"b")`, tree.String())
	assert.Equal(t, int('a')+int(';')+int('b'), tree.Hash())

	b, err := builder.New(def, "ab", builder.WithLogger(quietLogger()))
	require.NoError(t, err)
	def.Parse(b, tFile)
	light, err := b.LightTree()
	require.NoError(t, err)
	assert.Equal(t, tree.Hash(), light.Root().Hash())
	assert.Equal(t, tPlus, tSemi.Deref())
}
