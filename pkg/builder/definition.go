package builder

import (
	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// ParseFunc drives a Builder over its whole input and closes exactly one root
// marker of type root.
type ParseFunc func(b *Builder, root syntax.ElementType)

// Definition describes a language to the builder.
type Definition struct {
	// Name identifies the language in logs and configuration.
	Name string

	// Whitespace and Comments together form the trivia skipped by the cursor.
	Whitespace syntax.TokenSet
	Comments   syntax.TokenSet

	// NewLexer returns a fresh lexer for one text.
	NewLexer func() lexeme.Lexer

	// Parse is the grammar entry point.
	Parse ParseFunc

	// Root is the element type of the file node.
	Root syntax.ElementType

	// Lazy returns the definition used to parse the contents of a lazy token.
	// The nested parse closes a root of the token's own type.
	Lazy func(t syntax.ElementType) (Definition, bool)
}

func (d Definition) lazyDefinition(t syntax.ElementType) (Definition, bool) {
	if d.Lazy == nil {
		return Definition{}, false
	}
	return d.Lazy(t)
}
