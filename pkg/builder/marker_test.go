package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// advance consumes the current token, checking its type first.
func advance(b *builder.Builder) {
	b.TokenType()
	b.AdvanceLexer()
}

func TestRollbackLaw(t *testing.T) {
	t.Parallel()

	plain := parseWith(t, "a + b", nil)

	speculative := parseWith(t, "a + b", func(b *builder.Builder, root syntax.ElementType) {
		m := b.Mark()

		attempt := b.Mark()
		inner := b.Mark()
		advance(b)
		inner.Done(tStmt)
		wrap := inner.Precede()
		b.Error("speculation")
		advance(b)
		wrap.Done(tExpr)
		attempt.Done(tExpr)

		// Everything logged since attempt was opened is discarded.
		attempt.RollbackTo()
		assert.Equal(t, 0, b.CurrentOffset())

		for !b.EOF() {
			parseExpr(b)
		}
		m.Done(root)
	})

	assert.Equal(t, plain, speculative)
}

func TestRollbackInvalidatesHandles(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a b")
	b.Mark()
	m := b.Mark()
	advance(b)
	later := b.Mark()
	m.RollbackTo()

	uerr := usagePanic(t, func() { later.Done(tRef) })
	require.ErrorIs(t, uerr, builder.ErrStaleMarker)
	require.ErrorIs(t, uerr, builder.ErrUsage)

	uerr = usagePanic(t, func() { m.Drop() })
	require.ErrorIs(t, uerr, builder.ErrStaleMarker)
}

func TestRollbackReopensEnclosingMarker(t *testing.T) {
	t.Parallel()

	got := parseWith(t, "a b", func(b *builder.Builder, root syntax.ElementType) {
		m := b.Mark()
		outer := b.Mark()
		advance(b)
		inner := b.Mark()
		advance(b)
		inner.Done(tRef)
		outer.Done(tExpr)

		inner.Precede().RollbackTo()
		assert.False(t, outer.IsDone(), "rolling back over a close reopens the marker")

		advance(b)
		outer.Done(tStmt)
		b.EOF()
		m.Done(root)
	})

	assert.Equal(t, `(BT_FILE (BT_STMT BT_IDENT"a" BT_WS" " BT_IDENT"b"))`, got)
}

func TestCollapseLaw(t *testing.T) {
	t.Parallel()

	got := parseWith(t, "a + b c", func(b *builder.Builder, root syntax.ElementType) {
		m := b.Mark()
		collapsed := b.Mark()
		parseExpr(b)
		collapsed.Collapse(tExpr)
		for !b.EOF() {
			parseExpr(b)
		}
		m.Done(root)
	})

	assert.Equal(t, `(BT_FILE BT_EXPR"a + b" BT_WS" " (BT_REF BT_IDENT"c"))`, got)
}

func TestDoneBefore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		close func(first, second builder.Marker)
		want  string
	}{
		{
			name:  "done before",
			close: func(first, second builder.Marker) { first.DoneBefore(tExpr, second) },
			want:  `(BT_FILE (BT_EXPR BT_IDENT"a") BT_WS" " (BT_REF BT_IDENT"b"))`,
		},
		{
			name: "done before with error",
			close: func(first, second builder.Marker) {
				first.DoneBeforeWithError(tExpr, second, "oops")
			},
			want: `(BT_FILE (BT_EXPR BT_IDENT"a" (ERROR_ELEMENT "oops")) BT_WS" " (BT_REF BT_IDENT"b"))`,
		},
		{
			name:  "error before",
			close: func(first, second builder.Marker) { first.ErrorBefore("bad", second) },
			want:  `(BT_FILE (ERROR_ELEMENT "bad" BT_IDENT"a") BT_WS" " (BT_REF BT_IDENT"b"))`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := parseWith(t, "a b", func(b *builder.Builder, root syntax.ElementType) {
				m := b.Mark()
				first := b.Mark()
				advance(b)
				second := b.Mark()
				advance(b)
				second.Done(tRef)
				testCase.close(first, second)
				b.EOF()
				m.Done(root)
			}, builder.WithDebug(true))

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestEmptyMarkerPlacement(t *testing.T) {
	t.Parallel()

	parse := func(typ syntax.ElementType, asError bool) builder.ParseFunc {
		return func(b *builder.Builder, root syntax.ElementType) {
			m := b.Mark()
			parseExpr(b)
			empty := b.Mark()
			if asError {
				empty.Error("missing")
			} else {
				empty.Done(typ)
			}
			parseExpr(b)
			b.EOF()
			m.Done(root)
		}
	}

	tests := []struct {
		name    string
		typ     syntax.ElementType
		asError bool
		want    string
	}{
		{
			name: "left bound type ties to the preceding token",
			typ:  tEmpty,
			want: `(BT_FILE (BT_REF BT_IDENT"a") (BT_EMPTY) BT_WS"  " (BT_REF BT_IDENT"b"))`,
		},
		{
			name: "plain type stays before the next token",
			typ:  tExpr,
			want: `(BT_FILE (BT_REF BT_IDENT"a") BT_WS"  " (BT_EXPR) (BT_REF BT_IDENT"b"))`,
		},
		{
			name:    "errors always tie left",
			asError: true,
			want:    `(BT_FILE (BT_REF BT_IDENT"a") (ERROR_ELEMENT "missing") BT_WS"  " (BT_REF BT_IDENT"b"))`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, parseWith(t, "a  b", parse(testCase.typ, testCase.asError)))
		})
	}
}

func TestEdgeBinders(t *testing.T) {
	t.Parallel()

	text := "a # one\n\n# two\n# three\nb # tail\n"

	parse := func(left, right builder.EdgeBinder) builder.ParseFunc {
		return func(b *builder.Builder, root syntax.ElementType) {
			m := b.Mark()
			parseExpr(b)
			stmt := b.Mark()
			parseExpr(b)
			stmt.Done(tStmt)
			stmt.SetCustomEdgeTokenBinders(left, right)
			b.EOF()
			m.Done(root)
		}
	}

	tests := []struct {
		name  string
		left  builder.EdgeBinder
		right builder.EdgeBinder
		want  string
	}{
		{
			name: "defaults leave trivia outside",
			want: `(BT_FILE (BT_REF BT_IDENT"a") BT_WS" " BT_COMMENT"# one" BT_WS"\n\n" BT_COMMENT"# two" BT_WS"\n" ` +
				`BT_COMMENT"# three" BT_WS"\n" (BT_STMT (BT_REF BT_IDENT"b")) BT_WS" " BT_COMMENT"# tail" BT_WS"\n")`,
		},
		{
			name:  "comment binders",
			left:  builder.LeadingComments(comments),
			right: builder.TrailingComments(comments),
			want: `(BT_FILE (BT_REF BT_IDENT"a") BT_WS" " BT_COMMENT"# one" BT_WS"\n\n" (BT_STMT BT_COMMENT"# two" BT_WS"\n" ` +
				`BT_COMMENT"# three" BT_WS"\n" (BT_REF BT_IDENT"b") BT_WS" " BT_COMMENT"# tail") BT_WS"\n")`,
		},
		{
			name:  "greedy binders",
			left:  builder.GreedyLeft,
			right: builder.GreedyRight,
			want: `(BT_FILE (BT_REF BT_IDENT"a") (BT_STMT BT_WS" " BT_COMMENT"# one" BT_WS"\n\n" BT_COMMENT"# two" BT_WS"\n" ` +
				`BT_COMMENT"# three" BT_WS"\n" (BT_REF BT_IDENT"b") BT_WS" " BT_COMMENT"# tail" BT_WS"\n"))`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, parseWith(t, text, parse(testCase.left, testCase.right)))
		})
	}
}

func TestBinderOutOfRange(t *testing.T) {
	t.Parallel()

	wild := builder.BinderFunc(func(tokens []syntax.ElementType, _ bool, _ builder.TextGetter) int {
		return len(tokens) + 5
	})
	parse := func(b *builder.Builder, root syntax.ElementType) {
		m := b.Mark()
		parseExpr(b)
		stmt := b.Mark()
		parseExpr(b)
		stmt.Done(tStmt)
		stmt.SetCustomEdgeTokenBinders(nil, wild)
		b.EOF()
		m.Done(root)
	}

	assert.Equal(t, `(BT_FILE (BT_REF BT_IDENT"a") BT_WS" " (BT_STMT (BT_REF BT_IDENT"b") BT_WS" "))`,
		parseWith(t, "a b ", parse))

	b := newBuilder(t, "a b ", builder.WithDebug(true))
	parse(b, tFile)
	uerr := usagePanic(t, func() { _, _ = b.TreeBuilt() })
	assert.Contains(t, uerr.Message, "edge binder")
}

func TestFreeStandingErrorsAreCoalesced(t *testing.T) {
	t.Parallel()

	got := parseWith(t, "a b", func(b *builder.Builder, root syntax.ElementType) {
		m := b.Mark()
		advance(b)
		b.Error("first")
		b.Error("second")
		b.EOF()
		b.Error("third")
		advance(b)
		m.Done(root)
	})

	assert.Equal(t, `(BT_FILE BT_IDENT"a" (ERROR_ELEMENT "first") BT_WS" " BT_IDENT"b")`, got)
}

func TestDropAndPoolReuse(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a")
	root := b.Mark()
	dropped := b.Mark()
	dropped.Drop()

	reused := b.Mark()
	uerr := usagePanic(t, func() { dropped.Done(tRef) })
	require.ErrorIs(t, uerr, builder.ErrStaleMarker)

	advance(b)
	reused.Done(tRef)
	root.Done(tFile)

	tree, err := b.TreeBuilt()
	require.NoError(t, err)
	assert.Equal(t, `(BT_FILE (BT_REF BT_IDENT"a"))`, tree.String())

	uerr = usagePanic(t, func() { reused.Type() })
	require.ErrorIs(t, uerr, builder.ErrBuilderSpent)
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		misuse  func(b *builder.Builder)
	}{
		{
			name:    "done twice",
			message: "already done",
			misuse: func(b *builder.Builder) {
				m := b.Mark()
				m.Done(tRef)
				m.Done(tRef)
			},
		},
		{
			name:    "closing over an open marker",
			message: "another not done marker",
			misuse: func(b *builder.Builder) {
				m := b.Mark()
				b.Mark()
				m.Done(tRef)
			},
		},
		{
			name:    "dropping over an open marker",
			message: "another not done marker",
			misuse: func(b *builder.Builder) {
				m := b.Mark()
				b.Mark()
				m.Drop()
			},
		},
		{
			name:    "before marker precedes",
			message: "precedes this one",
			misuse: func(b *builder.Builder) {
				before := b.Mark()
				before.Done(tRef)
				m := b.Mark()
				m.DoneBefore(tExpr, before)
			},
		},
		{
			name:    "dropping a closed marker",
			message: "already done",
			misuse: func(b *builder.Builder) {
				m := b.Mark()
				m.Done(tRef)
				m.Drop()
			},
		},
		{
			name:    "advancing an unchecked token",
			message: "without checking its type",
			misuse: func(b *builder.Builder) {
				advance(b)
				b.AdvanceLexer()
			},
		},
		{
			name:    "right binder on an open marker",
			message: "unclosed marker",
			misuse: func(b *builder.Builder) {
				b.Mark().SetCustomEdgeTokenBinders(nil, builder.DefaultRight)
			},
		},
		{
			name:    "zero marker",
			message: "zero Marker",
			misuse: func(*builder.Builder) {
				var m builder.Marker
				m.Done(tRef)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			b := newBuilder(t, "a b c", builder.WithDebug(true))
			b.Mark()

			uerr := usagePanic(t, func() { testCase.misuse(b) })
			assert.Contains(t, uerr.Message, testCase.message)
			require.ErrorIs(t, uerr, builder.ErrUsage)
		})
	}
}

func TestUsageErrorCarriesStacks(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a", builder.WithDebug(true))
	b.Mark()
	m := b.Mark()
	b.Mark()

	uerr := usagePanic(t, func() { m.Done(tRef) })
	assert.NotEmpty(t, uerr.Allocated)
	assert.NotEmpty(t, uerr.Conflicting)
	assert.Contains(t, uerr.Stacks(), "TestUsageErrorCarriesStacks")
}

func TestNoChecksOutsideDebugMode(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, "a b")
	root := b.Mark()
	b.AdvanceLexer()
	b.AdvanceLexer()
	m := b.Mark()
	b.Mark()
	assert.NotPanics(t, func() { m.Done(tRef) })

	b.SetDebugMode(true)
	uerr := usagePanic(t, func() { root.Done(tFile) })
	assert.Contains(t, uerr.Message, "another not done marker")
}
