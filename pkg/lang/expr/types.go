// Package expr is a small expression language used to exercise the builder:
// statements of let bindings and expressions over identifiers, numbers,
// arithmetic, calls and lambdas.
package expr

import "github.com/yaklabco/syntree/pkg/syntax"

// Token types.
//
//nolint:gochecknoglobals // Element types are process-wide registrations.
var (
	Whitespace = syntax.Register("EXPR_WHITESPACE")
	Comment    = syntax.Register("EXPR_COMMENT")
	Ident      = syntax.Register("EXPR_IDENT")
	Number     = syntax.Register("EXPR_NUMBER")
	Let        = syntax.Register("EXPR_LET")
	Dot        = syntax.Register("EXPR_DOT")
	Plus       = syntax.Register("EXPR_PLUS")
	Minus      = syntax.Register("EXPR_MINUS")
	Star       = syntax.Register("EXPR_STAR")
	Slash      = syntax.Register("EXPR_SLASH")
	Assign     = syntax.Register("EXPR_ASSIGN")
	Arrow      = syntax.Register("EXPR_ARROW")
	Comma      = syntax.Register("EXPR_COMMA")
	Semicolon  = syntax.Register("EXPR_SEMICOLON")
	LParen     = syntax.Register("EXPR_LPAREN")
	RParen     = syntax.Register("EXPR_RPAREN")
)

// Composite types.
//
//nolint:gochecknoglobals // Element types are process-wide registrations.
var (
	File     = syntax.Register("EXPR_FILE", syntax.File())
	LetStmt  = syntax.Register("EXPR_LET_STMT")
	ExprStmt = syntax.Register("EXPR_EXPR_STMT")
	Binary   = syntax.Register("EXPR_BINARY")
	Unary    = syntax.Register("EXPR_UNARY")
	Ref      = syntax.Register("EXPR_REF")
	Literal  = syntax.Register("EXPR_LITERAL")
	Float    = syntax.Register("EXPR_FLOAT")
	Paren    = syntax.Register("EXPR_PAREN")
	Call     = syntax.Register("EXPR_CALL")
	Args     = syntax.Register("EXPR_ARGS")
	Lambda   = syntax.Register("EXPR_LAMBDA")
	Params   = syntax.Register("EXPR_PARAMS")
	Param    = syntax.Register("EXPR_PARAM")
)

//nolint:gochecknoglobals // Immutable sets.
var (
	whitespaceSet  = syntax.NewTokenSet(Whitespace)
	commentSet     = syntax.NewTokenSet(Comment)
	additive       = syntax.NewTokenSet(Plus, Minus)
	multiplicative = syntax.NewTokenSet(Star, Slash)
	argsEnd        = syntax.NewTokenSet(Comma, RParen)
)

func init() {
	syntax.RegisterWhitespace(Whitespace)
}
