package markdown

import (
	"strings"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// Name identifies the language in configuration and logs.
const Name = "markdown"

// Definition returns the builder definition for Markdown documents.
func Definition() builder.Definition {
	return builder.Definition{
		Name:       Name,
		Whitespace: whitespaceSet,
		Comments:   commentSet,
		NewLexer:   NewLexer,
		Parse:      Parse,
		Root:       Document,
		Lazy:       lazyDefinition,
	}
}

func lazyDefinition(t syntax.ElementType) (builder.Definition, bool) {
	if t == CodeContent {
		return CodeDefinition(), true
	}
	return builder.Definition{}, false
}

// attachComments pulls every comment line in the trivia above a block into
// the block. Blank lines are significant tokens, so a comment separated from
// the block by one never reaches the window.
//
//nolint:gochecknoglobals // Stateless binder.
var attachComments = builder.BinderFunc(func(tokens []syntax.ElementType, _ bool, _ builder.TextGetter) int {
	for i, t := range tokens {
		if commentSet.Contains(t) {
			return i
		}
	}
	return len(tokens)
})

// Parse is the grammar entry point. Newlines outside blocks, including blank
// lines, are children of the document.
func Parse(b *builder.Builder, root syntax.ElementType) {
	doc := b.Mark()
	for !b.EOF() {
		parseBlock(b)
	}
	doc.Done(root)
}

func parseBlock(b *builder.Builder) {
	t := b.TokenType()
	if t == Newline {
		b.AdvanceLexer()
		return
	}

	m := b.Mark()
	m.SetCustomEdgeTokenBinders(attachComments, nil)

	switch t {
	case HeadingMarker:
		b.AdvanceLexer()
		parseInline(b, noClosers)
		m.Done(Heading)
	case CodeFence:
		parseFencedCode(b)
		m.Done(FencedCode)
	case BlockquoteMarker:
		parseBlockquote(b)
		m.Done(Blockquote)
	case ListBullet, ListNumber:
		parseList(b, t)
		m.Done(List)
	case Rule:
		b.AdvanceLexer()
		m.Done(ThematicBreak)
	case HTMLLine:
		parseHTMLBlock(b)
		m.Done(HTMLBlock)
	default:
		m.Done(parseParagraph(b))
	}
}

func parseFencedCode(b *builder.Builder) {
	b.AdvanceLexer()
	if b.TokenType() == CodeInfo {
		b.AdvanceLexer()
	}
	if b.TokenType() == Newline {
		b.AdvanceLexer()
	}
	if b.TokenType() == CodeContent {
		b.AdvanceLexer()
	}
	if b.TokenType() == CodeFence {
		b.AdvanceLexer()
		return
	}
	b.Error("closing code fence expected")
}

// parseBlockquote reads consecutive quoted lines. An unquoted line that would
// continue a paragraph is taken in lazily.
func parseBlockquote(b *builder.Builder) {
	for {
		if b.TokenType() == BlockquoteMarker {
			b.AdvanceLexer()
		}
		parseInline(b, noClosers)
		if b.TokenType() != Newline {
			return
		}
		if next := b.LookAhead(1); next != BlockquoteMarker && !continuesParagraph(next) {
			return
		}
		b.AdvanceLexer()
	}
}

// parseList reads items whose markers have the same type as the first one.
func parseList(b *builder.Builder, marker syntax.ElementType) {
	for {
		item := b.Mark()
		b.AdvanceLexer()
		for {
			parseInline(b, noClosers)
			if b.TokenType() != Newline || !continuesParagraph(b.LookAhead(1)) {
				break
			}
			b.AdvanceLexer()
		}
		item.Done(ListItem)

		if b.TokenType() != Newline || b.LookAhead(1) != marker {
			return
		}
		b.AdvanceLexer()
		b.TokenType()
	}
}

// parseHTMLBlock reads lines up to the next blank line.
func parseHTMLBlock(b *builder.Builder) {
	b.AdvanceLexer()
	for b.TokenType() == Newline {
		if next := b.LookAhead(1); next == Newline || next == syntax.None {
			return
		}
		b.AdvanceLexer()
		for !b.EOF() && b.TokenType() != Newline {
			b.AdvanceLexer()
		}
	}
}

// parseParagraph reads lines until a blank line or a block start, and returns
// the type of the node: a paragraph, or a setext heading when an underline
// ends it.
func parseParagraph(b *builder.Builder) syntax.ElementType {
	for {
		parseInline(b, noClosers)
		if b.TokenType() != Newline {
			return Paragraph
		}

		switch next := b.LookAhead(1); {
		case next == SetextUnderline:
			b.AdvanceLexer()
			b.TokenType()
			b.AdvanceLexer()
			return SetextHeading
		case next == Rule:
			if underlineRule(b) {
				return SetextHeading
			}
			return Paragraph
		case continuesParagraph(next):
			b.AdvanceLexer()
		default:
			return Paragraph
		}
	}
}

// underlineRule consumes a newline and a following rule of plain dashes as a
// setext underline. Any other rule is left for the next block.
func underlineRule(b *builder.Builder) bool {
	probe := b.Mark()
	b.AdvanceLexer()
	b.TokenType()
	if text, _ := b.TokenText(); strings.Trim(text, "- \t") != "" || strings.ContainsAny(strings.TrimRight(text, " \t"), " \t") {
		probe.RollbackTo()
		return false
	}
	b.RemapCurrentToken(SetextUnderline)
	b.TokenType()
	b.AdvanceLexer()
	probe.Drop()
	return true
}

func continuesParagraph(t syntax.ElementType) bool {
	return t != syntax.None && t != Newline && !blockStarts.Contains(t)
}

// parseInline reads the rest of the line, stopping before a newline or a
// token in closers.
func parseInline(b *builder.Builder, closers syntax.TokenSet) {
	for !b.EOF() {
		switch t := b.TokenType(); {
		case t == Newline, closers.Contains(t):
			return
		case t == Backtick:
			parseCodeSpan(b)
		case t == LinkOpen, t == ImageMarker && b.RawLookup(1) == LinkOpen:
			parseLink(b, t == ImageMarker)
		default:
			b.AdvanceLexer()
		}
	}
}

// parseCodeSpan collapses a backtick run, the text after it, and a closing
// run of the same length on the same line into one leaf. An unmatched run is
// plain text.
func parseCodeSpan(b *builder.Builder) {
	opening, _ := b.TokenText()
	span := b.Mark()
	b.AdvanceLexer()
	for {
		t := b.TokenType()
		if t == syntax.None || t == Newline {
			break
		}
		if t == Backtick {
			if closing, _ := b.TokenText(); closing == opening {
				b.AdvanceLexer()
				span.Collapse(CodeSpan)
				return
			}
		}
		b.AdvanceLexer()
	}
	span.RollbackTo()
	b.AdvanceLexer()
}

// parseLink reads [text](destination) or ![text](destination). Anything else
// rolls back and the opening token is plain text.
func parseLink(b *builder.Builder, image bool) {
	link := b.Mark()
	if image {
		b.AdvanceLexer()
		b.TokenType()
	}
	b.AdvanceLexer()
	parseInline(b, linkText)

	if b.TokenType() != LinkClose || b.RawLookup(1) != ParenOpen {
		link.RollbackTo()
		b.AdvanceLexer()
		return
	}
	b.AdvanceLexer()

	dest := b.Mark()
	b.TokenType()
	b.AdvanceLexer()
	for !b.EOF() {
		t := b.TokenType()
		if t == Newline {
			break
		}
		b.AdvanceLexer()
		if t == ParenClose {
			dest.Done(LinkDestination)
			if image {
				link.Done(Image)
			} else {
				link.Done(Link)
			}
			return
		}
	}
	link.RollbackTo()
	b.AdvanceLexer()
}
