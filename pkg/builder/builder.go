// Package builder turns a token stream into a syntax tree through a log of
// start, done and error markers recorded by a parser.
//
// A parser calls Mark to open a marker at the current token, advances the
// cursor, and closes the marker with Done, Collapse or Error. Markers can be
// dropped, rolled back for backtracking, or preceded to wrap an already closed
// node. Once parsing finishes, the log is assembled into either a flyweight
// LightTree or a persistent ast.Node tree, or merged into a previous tree as an
// edit script.
//
// A Builder is used by one goroutine for one parse.
package builder

import (
	"fmt"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// Remapper retypes the token under the cursor, for contextual keywords.
// text is the whole input; the token spans [start, end).
type Remapper func(t syntax.ElementType, start, end int, text string) syntax.ElementType

// SkipFunc is called for every trivia token the cursor skips.
type SkipFunc func(t syntax.ElementType, start, end int)

// Builder records markers over a cached token stream.
type Builder struct {
	def      Definition
	settings settings
	lex      *lexeme.Table

	whitespace syntax.TokenSet
	comments   syntax.TokenSet

	slab       slab
	production production

	current  int
	checked  bool
	remapper Remapper
	onSkip   SkipFunc

	// pools is shared with the light trees of nested lazy parses.
	pools *tokenPools
	spent bool

	// base is the offset of the text within the outermost text, for builders
	// parsing the contents of a lazy token.
	base int
}

// New tokenizes text with the definition's lexer and returns a Builder
// positioned at the first token.
func New(def Definition, text string, opts ...Option) (*Builder, error) {
	cfg := settings{depthLimit: DefaultDepthLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	if def.NewLexer == nil {
		return nil, fmt.Errorf("definition %q has no lexer", def.Name)
	}

	table, err := lexeme.Tokenize(def.NewLexer(), text)
	if err != nil {
		return nil, fmt.Errorf("new builder: %w", err)
	}
	if cfg.debug {
		cfg.logger.Debug("input tokenized", logging.FieldLanguage, def.Name, logging.FieldTokens, table.Count)
	}

	return &Builder{
		def:        def,
		settings:   cfg,
		lex:        table,
		whitespace: def.Whitespace,
		comments:   def.Comments,
		production: make(production, 0, max(16, table.Count/2)),
	}, nil
}

// Text returns the input text.
func (b *Builder) Text() string {
	return b.lex.Text
}

// Lexemes returns the cached token table.
func (b *Builder) Lexemes() *lexeme.Table {
	return b.lex
}

// Definition returns the language definition.
func (b *Builder) Definition() Definition {
	return b.def
}

// SetDebugMode toggles marker validity checks. Markers created while debug
// mode is off carry no allocation stack.
func (b *Builder) SetDebugMode(debug bool) {
	b.settings.debug = debug
}

// SetTokenTypeRemapper installs r; nil removes it.
func (b *Builder) SetTokenTypeRemapper(r Remapper) {
	b.remapper = r
}

// SetWhitespaceSkippedCallback installs fn; nil removes it.
func (b *Builder) SetWhitespaceSkippedCallback(fn SkipFunc) {
	b.onSkip = fn
}

// EnforceCommentTokens replaces the comment set from the definition.
func (b *Builder) EnforceCommentTokens(comments syntax.TokenSet) {
	b.comments = comments
}

// RemapCurrentToken changes the type of the token under the cursor.
func (b *Builder) RemapCurrentToken(t syntax.ElementType) {
	if b.current < b.lex.Count {
		b.lex.Types[b.current] = t
	}
}

func (b *Builder) isTrivia(t syntax.ElementType) bool {
	return b.whitespace.Contains(t) || b.comments.Contains(t)
}

func (b *Builder) skipWhitespace() {
	for b.current < b.lex.Count && b.isTrivia(b.lex.Types[b.current]) {
		if b.onSkip != nil {
			b.onSkip(b.lex.Types[b.current], b.lex.Start(b.current), b.lex.End(b.current))
		}
		b.current++
	}
}

// EOF skips trivia and reports whether the cursor is past the last token.
// It counts as checking the current token type.
func (b *Builder) EOF() bool {
	b.checked = true
	b.skipWhitespace()
	return b.current >= b.lex.Count
}

// TokenType returns the type of the token under the cursor after applying the
// remapper, or syntax.None at end of input.
func (b *Builder) TokenType() syntax.ElementType {
	if b.EOF() {
		return syntax.None
	}

	t := b.lex.Types[b.current]
	if b.remapper != nil {
		t = b.remapper(t, b.lex.Start(b.current), b.lex.End(b.current), b.lex.Text)
		b.lex.Types[b.current] = t
	}
	return t
}

// TokenText returns the text of the token under the cursor. Wrapper types
// yield their fixed value.
func (b *Builder) TokenText() (string, bool) {
	if b.EOF() {
		return "", false
	}
	if value, ok := b.TokenType().WrapperValue(); ok {
		return value, true
	}
	return b.lex.TokenText(b.current), true
}

// AdvanceLexer moves the cursor to the next token. In debug mode advancing
// over a token whose type was never looked at is a usage error.
func (b *Builder) AdvanceLexer() {
	checked := b.checked
	if b.EOF() {
		return
	}
	if b.settings.debug && !checked {
		b.fail(fmt.Sprintf("advancing over %s at offset %d without checking its type",
			b.lex.Types[b.current], b.lex.Start(b.current)), none, none, nil)
	}
	b.checked = false
	b.current++
}

// LookAhead skips trivia and returns the type of the steps-th significant
// token after the current one, or syntax.None past the end.
func (b *Builder) LookAhead(steps int) syntax.ElementType {
	b.skipWhitespace()
	cur := b.current
	for ; steps > 0; steps-- {
		cur++
		for cur < b.lex.Count && b.isTrivia(b.lex.Types[cur]) {
			cur++
		}
	}
	if cur < b.lex.Count {
		return b.lex.Types[cur]
	}
	return syntax.None
}

// RawLookup returns the type of the token steps positions away from the
// cursor, trivia included, or syntax.None out of range.
func (b *Builder) RawLookup(steps int) syntax.ElementType {
	cur := b.current + steps
	if cur < 0 || cur >= b.lex.Count {
		return syntax.None
	}
	return b.lex.Types[cur]
}

// RawTokenTypeStart returns the start offset of the token steps positions away
// from the cursor: -1 before the input, the text length past its end.
func (b *Builder) RawTokenTypeStart(steps int) int {
	cur := b.current + steps
	if cur < 0 {
		return -1
	}
	if cur >= b.lex.Count {
		return len(b.lex.Text)
	}
	return b.lex.Start(cur)
}

// CurrentOffset returns the start of the token under the cursor, or the text
// length at end of input.
func (b *Builder) CurrentOffset() int {
	if b.EOF() {
		return len(b.lex.Text)
	}
	return b.lex.Start(b.current)
}

// isEmpty reports whether lexemes [from, to) are all trivia.
func (b *Builder) isEmpty(from, to int) bool {
	for i := from; i < to; i++ {
		if !b.isTrivia(b.lex.Types[i]) {
			return false
		}
	}
	return true
}

// Error appends a free-standing error at the cursor. A second error at the
// same token is ignored.
func (b *Builder) Error(message string) {
	b.ensureLive()
	if last := b.production.last(); last != none {
		rec := b.slab.get(last)
		if rec.kind == kindError && rec.lexeme == b.current {
			return
		}
	}
	id := b.slab.alloc(kindError)
	rec := b.slab.get(id)
	rec.lexeme = b.current
	rec.message = message
	b.production.add(id)
}

// LatestDoneMarker returns the node of the most recently closed marker.
func (b *Builder) LatestDoneMarker() (LightNode, bool) {
	for i := len(b.production) - 1; i >= 0; i-- {
		rec := b.slab.get(b.production[i])
		if rec.kind == kindDone {
			return LightNode{b: b, id: rec.start}, true
		}
	}
	return LightNode{}, false
}

// Release recycles every marker. The builder cannot be used afterwards.
func (b *Builder) Release() {
	if b.spent {
		return
	}
	for _, id := range b.production {
		b.slab.release(id)
	}
	b.production = b.production[:0]
	b.spent = true
}

func (b *Builder) ensureLive() {
	if b.spent {
		b.fail("builder used after its tree was produced", none, none, ErrBuilderSpent)
	}
}

// fail logs and raises a usage error for marker id (and other, if any).
func (b *Builder) fail(message string, id, other int, cause error) {
	uerr := &UsageError{Message: message, cause: cause}
	if id != none && id < len(b.slab.records) {
		uerr.Allocated = b.slab.records[id].stack
	}
	if other != none && other < len(b.slab.records) {
		uerr.Conflicting = b.slab.records[other].stack
	}

	b.settings.logger.Error("builder usage error",
		logging.FieldError, uerr.Message,
		logging.FieldLanguage, b.def.Name,
		logging.FieldOffset, b.RawTokenTypeStart(0),
	)
	if stacks := uerr.Stacks(); stacks != "" {
		b.settings.logger.Error(stacks)
	}

	panic(uerr)
}
