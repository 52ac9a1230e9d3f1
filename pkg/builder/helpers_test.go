package builder_test

import (
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

//nolint:gochecknoglobals // Element types are registered once per test binary.
var (
	tIdent   = syntax.Register("BT_IDENT")
	tNum     = syntax.Register("BT_NUM")
	tPlus    = syntax.Register("BT_PLUS")
	tLParen  = syntax.Register("BT_LPAREN")
	tRParen  = syntax.Register("BT_RPAREN")
	tLBrace  = syntax.Register("BT_LBRACE")
	tRBrace  = syntax.Register("BT_RBRACE")
	tWS      = syntax.Register("BT_WS")
	tComment = syntax.Register("BT_COMMENT")
	tBlock   = syntax.Register("BT_BLOCK", syntax.Lazy())
	tIndent  = syntax.Register("BT_INDENT", syntax.ZeroLengthLeaf())
	tMarker  = syntax.Register("BT_MARKER")
	tSemi    = syntax.Register("BT_SEMI", syntax.WrapperOf(tPlus, ";"))

	tFile   = syntax.Register("BT_FILE", syntax.File())
	tRef    = syntax.Register("BT_REF")
	tLit    = syntax.Register("BT_LIT")
	tBinary = syntax.Register("BT_BINARY")
	tParen  = syntax.Register("BT_PAREN")
	tStmt   = syntax.Register("BT_STMT")
	tExpr   = syntax.Register("BT_EXPR")
	tEmpty  = syntax.Register("BT_EMPTY", syntax.LeftBound())

	whitespace = syntax.NewTokenSet(tWS)
	comments   = syntax.NewTokenSet(tComment)
)

// scanner tokenizes the test language. With blocks set, a braced group is a
// single lazy token.
func scanner(blocks bool) lexeme.ScanFunc {
	return func(text string, pos int) (syntax.ElementType, int, error) {
		c := text[pos]
		switch {
		case c == ' ' || c == '\n' || c == '\t':
			end := pos
			for end < len(text) && strings.IndexByte(" \n\t", text[end]) >= 0 {
				end++
			}
			return tWS, end, nil
		case c == '#':
			end := strings.IndexByte(text[pos:], '\n')
			if end < 0 {
				return tComment, len(text), nil
			}
			return tComment, pos + end, nil
		case c >= 'a' && c <= 'z':
			end := pos
			for end < len(text) && text[end] >= 'a' && text[end] <= 'z' {
				end++
			}
			return tIdent, end, nil
		case c >= '0' && c <= '9':
			end := pos
			for end < len(text) && text[end] >= '0' && text[end] <= '9' {
				end++
			}
			return tNum, end, nil
		case c == '+':
			return tPlus, pos + 1, nil
		case c == '(':
			return tLParen, pos + 1, nil
		case c == ')':
			return tRParen, pos + 1, nil
		case c == '{' && blocks:
			end := strings.IndexByte(text[pos:], '}')
			if end < 0 {
				return tBlock, len(text), nil
			}
			return tBlock, pos + end + 1, nil
		case c == '{':
			return tLBrace, pos + 1, nil
		case c == '}':
			return tRBrace, pos + 1, nil
		default:
			return syntax.BadCharacter, pos + 1, nil
		}
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func blockDef() builder.Definition {
	return builder.Definition{
		Name:       "test-block",
		Whitespace: whitespace,
		Comments:   comments,
		NewLexer:   func() lexeme.Lexer { return lexeme.NewScanLexer(scanner(false)) },
		Parse:      parseBlock,
		Root:       tBlock,
	}
}

func testDef(parse builder.ParseFunc) builder.Definition {
	if parse == nil {
		parse = parseFile
	}
	return builder.Definition{
		Name:       "test",
		Whitespace: whitespace,
		Comments:   comments,
		NewLexer:   func() lexeme.Lexer { return lexeme.NewScanLexer(scanner(true)) },
		Parse:      parse,
		Root:       tFile,
		Lazy: func(t syntax.ElementType) (builder.Definition, bool) {
			if t == tBlock {
				return blockDef(), true
			}
			return builder.Definition{}, false
		},
	}
}

func newBuilder(t *testing.T, text string, opts ...builder.Option) *builder.Builder {
	t.Helper()

	opts = append([]builder.Option{builder.WithLogger(quietLogger())}, opts...)
	b, err := builder.New(testDef(nil), text, opts...)
	require.NoError(t, err)
	return b
}

func parseFile(b *builder.Builder, root syntax.ElementType) {
	m := b.Mark()
	for !b.EOF() {
		parseExpr(b)
	}
	m.Done(root)
}

func parseBlock(b *builder.Builder, root syntax.ElementType) {
	m := b.Mark()
	if b.TokenType() == tLBrace {
		b.AdvanceLexer()
	}
	for !b.EOF() && b.TokenType() != tRBrace {
		parseExpr(b)
	}
	if b.TokenType() == tRBrace {
		b.AdvanceLexer()
	} else {
		b.Error("'}' expected")
	}
	m.Done(root)
}

func parseExpr(b *builder.Builder) {
	left := parseTerm(b)
	for b.TokenType() == tPlus {
		bin := left.Precede()
		b.AdvanceLexer()
		parseTerm(b)
		bin.Done(tBinary)
		left = bin
	}
}

func parseTerm(b *builder.Builder) builder.Marker {
	m := b.Mark()
	switch b.TokenType() {
	case tIdent:
		b.AdvanceLexer()
		m.Done(tRef)
	case tNum, tBlock:
		b.AdvanceLexer()
		m.Done(tLit)
	case tLParen:
		b.AdvanceLexer()
		parseExpr(b)
		if b.TokenType() == tRParen {
			b.AdvanceLexer()
		} else {
			b.Error("')' expected")
		}
		m.Done(tParen)
	default:
		b.AdvanceLexer()
		m.Error("unexpected token")
	}
	return m
}

// parseWith runs parse over text and returns the heavy tree.
func parseWith(t *testing.T, text string, parse builder.ParseFunc, opts ...builder.Option) string {
	t.Helper()

	opts = append([]builder.Option{builder.WithLogger(quietLogger())}, opts...)
	tree, err := builder.Parse(testDef(parse), text, opts...)
	require.NoError(t, err)
	require.Equal(t, text, tree.Text())
	return tree.String()
}

// dumpLight renders a light tree in the same s-expression form as ast.Node.
// Lazy tokens are not expanded.
func dumpLight(tree *builder.LightTree) string {
	var sb strings.Builder
	var walk func(n builder.LightNode)
	walk = func(n builder.LightNode) {
		if n.IsToken() {
			sb.WriteString(n.Type().String())
			sb.WriteString(strconv.Quote(n.Text()))
			return
		}
		sb.WriteByte('(')
		sb.WriteString(n.Type().String())
		if n.Type() == syntax.Error {
			msg, _ := n.ErrorMessage()
			sb.WriteByte(' ')
			sb.WriteString(strconv.Quote(msg))
		}
		kids := tree.Children(n)
		for _, kid := range kids {
			sb.WriteByte(' ')
			walk(kid)
		}
		tree.DisposeChildren(kids)
		sb.WriteByte(')')
	}
	walk(tree.Root())
	return sb.String()
}

// usagePanic runs fn and returns the usage error it panics with.
func usagePanic(t *testing.T, fn func()) (uerr *builder.UsageError) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a usage panic")
		var ok bool
		uerr, ok = r.(*builder.UsageError)
		require.True(t, ok, "panic value %v is not a *UsageError", r)
	}()
	fn()
	return nil
}
