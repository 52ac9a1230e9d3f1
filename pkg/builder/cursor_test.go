package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/syntax"
)

func TestCursorQueries(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a + # c\n b")
	require.Equal(t, "a + # c\n b", b.Text())
	require.Equal(t, 7, b.Lexemes().Count)

	assert.Equal(t, tIdent, b.TokenType())
	assert.Equal(t, tPlus, b.LookAhead(1))
	assert.Equal(t, tIdent, b.LookAhead(2))
	assert.Equal(t, syntax.None, b.LookAhead(3))
	assert.Equal(t, tWS, b.RawLookup(1))
	assert.Equal(t, syntax.None, b.RawLookup(-1))
	assert.Equal(t, -1, b.RawTokenTypeStart(-1))
	assert.Equal(t, 1, b.RawTokenTypeStart(1))
	assert.Equal(t, 10, b.RawTokenTypeStart(20))

	text, ok := b.TokenText()
	require.True(t, ok)
	assert.Equal(t, "a", text)

	b.AdvanceLexer()
	assert.Equal(t, 2, b.CurrentOffset())
	b.AdvanceLexer()
	assert.Equal(t, 9, b.CurrentOffset(), "trivia is skipped, comments included")
	assert.False(t, b.EOF())

	b.AdvanceLexer()
	assert.True(t, b.EOF())
	assert.Equal(t, syntax.None, b.TokenType())
	assert.Equal(t, 10, b.CurrentOffset())
	_, ok = b.TokenText()
	assert.False(t, ok)
}

func TestLookAheadSkipsTriviaAfterAdvance(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a b 1")
	require.Equal(t, tIdent, b.TokenType())
	b.AdvanceLexer()

	assert.Equal(t, tIdent, b.LookAhead(0), "the cursor moves past trivia first")
	assert.Equal(t, tNum, b.LookAhead(1))
	assert.Equal(t, syntax.None, b.LookAhead(2))
	assert.Equal(t, tIdent, b.TokenType())
	assert.Equal(t, 2, b.CurrentOffset())
}

func TestWhitespaceSkippedCallback(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a  # c\nb")
	var skipped []string
	b.SetWhitespaceSkippedCallback(func(typ syntax.ElementType, start, end int) {
		skipped = append(skipped, typ.String()+":"+b.Text()[start:end])
	})

	parseFile(b, tFile)
	assert.Equal(t, []string{"BT_WS:  ", "BT_COMMENT:# c", "BT_WS:\n"}, skipped)
}

func TestEnforceCommentTokens(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a # c")
	b.EnforceCommentTokens(syntax.NewTokenSet())

	b.AdvanceLexer()
	assert.Equal(t, tComment, b.TokenType(), "comments are significant once removed from the trivia set")
}

func TestTokenTypeRemapper(t *testing.T) {
	t.Parallel()

	keyword := tStmt
	b := newBuilder(t, "let x")
	b.SetTokenTypeRemapper(func(typ syntax.ElementType, start, end int, text string) syntax.ElementType {
		if typ == tIdent && text[start:end] == "let" {
			return keyword
		}
		return typ
	})

	assert.Equal(t, keyword, b.TokenType())
	assert.Equal(t, keyword, b.RawLookup(0), "the remapped type is stored back")
	b.AdvanceLexer()
	assert.Equal(t, tIdent, b.TokenType())

	b.SetTokenTypeRemapper(nil)
	b.RemapCurrentToken(tRef)
	assert.Equal(t, tRef, b.TokenType())
}

func TestLatestDoneMarker(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a + b")
	_, ok := b.LatestDoneMarker()
	assert.False(t, ok)

	root := b.Mark()
	parseExpr(b)
	node, ok := b.LatestDoneMarker()
	require.True(t, ok)
	assert.Equal(t, tBinary, node.Type())

	root.Done(tFile)
	node, ok = b.LatestDoneMarker()
	require.True(t, ok)
	assert.Equal(t, tFile, node.Type())
}

func TestDefinitionAccessors(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a")
	assert.Equal(t, "test", b.Definition().Name)
	assert.Equal(t, tFile, b.Definition().Root)

	b.Release()
	uerr := usagePanic(t, func() { b.Mark() })
	require.ErrorIs(t, uerr, builder.ErrBuilderSpent)

	_, err := b.LightTree()
	require.ErrorIs(t, err, builder.ErrBuilderSpent)
}
