package expr

import (
	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// Name identifies the language in configuration and logs.
const Name = "expr"

// Definition returns the builder definition of the expression language.
func Definition() builder.Definition {
	return builder.Definition{
		Name:       Name,
		Whitespace: whitespaceSet,
		Comments:   commentSet,
		NewLexer:   NewLexer,
		Parse:      Parse,
		Root:       File,
	}
}

// Parse is the grammar entry point:
//
//	file      = { statement } .
//	statement = ( "let" ident "=" expr | expr ) [ ";" ] .
//	expr      = term { ( "+" | "-" ) term } .
//	term      = unary { ( "*" | "/" ) unary } .
//	unary     = "-" unary | postfix .
//	postfix   = primary { "(" [ expr { "," expr } ] ")" } .
//	primary   = ident | number [ "." number ] | lambda | "(" expr ")" .
//	lambda    = "(" [ ident { "," ident } ] ")" "->" expr .
func Parse(b *builder.Builder, root syntax.ElementType) {
	file := b.Mark()
	for !b.EOF() {
		parseStatement(b)
	}
	file.Done(root)
}

// remapLet turns the identifier "let" into a keyword. It is only installed
// while looking at the first token of a statement.
func remapLet(t syntax.ElementType, start, end int, text string) syntax.ElementType {
	if t == Ident && text[start:end] == "let" {
		return Let
	}
	return t
}

func parseStatement(b *builder.Builder) {
	stmt := b.Mark()
	stmt.SetCustomEdgeTokenBinders(builder.LeadingComments(commentSet), nil)

	b.SetTokenTypeRemapper(remapLet)
	head := b.TokenType()
	b.SetTokenTypeRemapper(nil)

	if head == Let {
		b.AdvanceLexer()
		expect(b, Ident, "identifier expected")
		expect(b, Assign, "'=' expected")
		if !parseExpr(b) {
			b.Error("expression expected")
		}
		skipSemicolon(b)
		stmt.Done(LetStmt)
		return
	}

	if !parseExpr(b) {
		b.AdvanceLexer()
		stmt.Error("statement expected")
		return
	}
	skipSemicolon(b)
	stmt.Done(ExprStmt)
}

func skipSemicolon(b *builder.Builder) {
	if b.TokenType() == Semicolon {
		b.AdvanceLexer()
	}
}

func expect(b *builder.Builder, t syntax.ElementType, message string) bool {
	if b.TokenType() == t {
		b.AdvanceLexer()
		return true
	}
	b.Error(message)
	return false
}

type operandFunc func(b *builder.Builder) (builder.Marker, bool)

// parseBinary parses a left-associative chain of operand separated by ops.
// Each operator wraps the node built so far with Precede.
func parseBinary(b *builder.Builder, ops syntax.TokenSet, operand operandFunc) (builder.Marker, bool) {
	left, ok := operand(b)
	if !ok {
		return left, false
	}
	for ops.Contains(b.TokenType()) {
		bin := left.Precede()
		b.AdvanceLexer()
		if _, ok := operand(b); !ok {
			b.Error("expression expected")
		}
		bin.Done(Binary)
		left = bin
	}
	return left, true
}

func parseExpr(b *builder.Builder) bool {
	_, ok := parseBinary(b, additive, parseTerm)
	return ok
}

func parseTerm(b *builder.Builder) (builder.Marker, bool) {
	return parseBinary(b, multiplicative, parseUnary)
}

func parseUnary(b *builder.Builder) (builder.Marker, bool) {
	if b.TokenType() != Minus {
		return parsePostfix(b)
	}
	m := b.Mark()
	b.AdvanceLexer()
	if _, ok := parseUnary(b); !ok {
		b.Error("expression expected")
	}
	m.Done(Unary)
	return m, true
}

func parsePostfix(b *builder.Builder) (builder.Marker, bool) {
	m, ok := parsePrimary(b)
	for ok && b.TokenType() == LParen {
		call := m.Precede()
		parseArgs(b)
		call.Done(Call)
		m = call
	}
	return m, ok
}

func parsePrimary(b *builder.Builder) (builder.Marker, bool) {
	switch b.TokenType() {
	case Ident:
		m := b.Mark()
		b.AdvanceLexer()
		m.Done(Ref)
		return m, true
	case Number:
		return parseNumber(b), true
	case LParen:
		if m, ok := tryLambda(b); ok {
			return m, true
		}
		return parseParen(b), true
	}
	return builder.Marker{}, false
}

// parseNumber reads an integer, or a float when a dot and digits follow with
// no trivia in between. Floats collapse into a single leaf.
func parseNumber(b *builder.Builder) builder.Marker {
	m := b.Mark()
	b.AdvanceLexer()
	if b.RawLookup(0) != Dot || b.RawLookup(1) != Number {
		m.Done(Literal)
		return m
	}
	for range 2 {
		b.TokenType()
		b.AdvanceLexer()
	}
	m.Collapse(Float)
	return m
}

// tryLambda speculatively parses a parameter list followed by an arrow and
// rolls back when the input turns out to be something else.
func tryLambda(b *builder.Builder) (builder.Marker, bool) {
	lambda := b.Mark()
	if !parseParams(b) || b.TokenType() != Arrow {
		lambda.RollbackTo()
		return builder.Marker{}, false
	}
	b.AdvanceLexer()
	if !parseExpr(b) {
		b.Error("expression expected")
	}
	lambda.Done(Lambda)
	return lambda, true
}

// parseParams leaves its markers open on failure; the caller rolls them back.
func parseParams(b *builder.Builder) bool {
	params := b.Mark()
	b.AdvanceLexer()
	if b.TokenType() != RParen {
		for {
			if b.TokenType() != Ident {
				return false
			}
			param := b.Mark()
			b.AdvanceLexer()
			param.Done(Param)
			if b.TokenType() != Comma {
				break
			}
			b.AdvanceLexer()
		}
	}
	if b.TokenType() != RParen {
		return false
	}
	b.AdvanceLexer()
	params.Done(Params)
	return true
}

func parseParen(b *builder.Builder) builder.Marker {
	m := b.Mark()
	b.AdvanceLexer()
	if !parseExpr(b) {
		b.Error("expression expected")
	}
	expect(b, RParen, "')' expected")
	m.Done(Paren)
	return m
}

func parseArgs(b *builder.Builder) {
	args := b.Mark()
	b.AdvanceLexer()
	if b.TokenType() != RParen {
		for {
			if !parseExpr(b) {
				b.Error("expression expected")
			}
			if !b.EOF() && !argsEnd.Contains(b.TokenType()) {
				skipToArgsEnd(b)
			}
			if b.TokenType() != Comma {
				break
			}
			b.AdvanceLexer()
		}
	}
	expect(b, RParen, "')' expected")
	args.Done(Args)
}

// skipToArgsEnd wraps everything up to the next comma or closing paren in an
// error element.
func skipToArgsEnd(b *builder.Builder) {
	junk := b.Mark()
	for !b.EOF() && !argsEnd.Contains(b.TokenType()) {
		b.AdvanceLexer()
	}
	stop := b.Mark()
	junk.ErrorBefore("',' or ')' expected", stop)
	stop.Drop()
}
