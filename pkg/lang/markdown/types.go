// Package markdown is a block-level Markdown grammar for the builder.
//
// The lexer classifies every byte of the source line by line. The grammar
// groups the tokens into headings, paragraphs, fenced code blocks, block
// quotes, lists, thematic breaks and HTML blocks, with code spans and links
// recognized inline. Single-line HTML comments are trivia attached to the
// block below them. The content of a fenced code block is a lazy token that
// is only split into lines when expanded.
package markdown

import "github.com/yaklabco/syntree/pkg/syntax"

// Token types.
//
//nolint:gochecknoglobals // Element types are process-wide registrations.
var (
	Text             = syntax.Register("MD_TEXT")
	Whitespace       = syntax.Register("MD_WHITESPACE")
	Newline          = syntax.Register("MD_NEWLINE")
	HeadingMarker    = syntax.Register("MD_HEADING_MARKER")
	SetextUnderline  = syntax.Register("MD_SETEXT_UNDERLINE")
	ListBullet       = syntax.Register("MD_LIST_BULLET")
	ListNumber       = syntax.Register("MD_LIST_NUMBER")
	BlockquoteMarker = syntax.Register("MD_BLOCKQUOTE_MARKER")
	CodeFence        = syntax.Register("MD_CODE_FENCE")
	CodeInfo         = syntax.Register("MD_CODE_INFO")
	CodeContent      = syntax.Register("MD_CODE_CONTENT", syntax.Lazy())
	CodeLine         = syntax.Register("MD_CODE_LINE")
	EmphasisMarker   = syntax.Register("MD_EMPHASIS_MARKER")
	LinkOpen         = syntax.Register("MD_LINK_OPEN")
	LinkClose        = syntax.Register("MD_LINK_CLOSE")
	ParenOpen        = syntax.Register("MD_PAREN_OPEN")
	ParenClose       = syntax.Register("MD_PAREN_CLOSE")
	ImageMarker      = syntax.Register("MD_IMAGE_MARKER")
	Backtick         = syntax.Register("MD_BACKTICK")
	EscapedChar      = syntax.Register("MD_ESCAPED_CHAR")
	HTMLLine         = syntax.Register("MD_HTML_LINE")
	InlineHTML       = syntax.Register("MD_INLINE_HTML")
	HTMLComment      = syntax.Register("MD_HTML_COMMENT")
	Rule             = syntax.Register("MD_RULE")
)

// Composite types.
//
//nolint:gochecknoglobals // Element types are process-wide registrations.
var (
	Document        = syntax.Register("MD_DOCUMENT", syntax.File())
	Heading         = syntax.Register("MD_HEADING")
	SetextHeading   = syntax.Register("MD_SETEXT_HEADING")
	Paragraph       = syntax.Register("MD_PARAGRAPH")
	FencedCode      = syntax.Register("MD_FENCED_CODE")
	Blockquote      = syntax.Register("MD_BLOCKQUOTE")
	List            = syntax.Register("MD_LIST")
	ListItem        = syntax.Register("MD_LIST_ITEM")
	ThematicBreak   = syntax.Register("MD_THEMATIC_BREAK")
	HTMLBlock       = syntax.Register("MD_HTML_BLOCK")
	CodeSpan        = syntax.Register("MD_CODE_SPAN")
	Link            = syntax.Register("MD_LINK")
	Image           = syntax.Register("MD_IMAGE")
	LinkDestination = syntax.Register("MD_LINK_DESTINATION")
)

//nolint:gochecknoglobals // Immutable sets.
var (
	whitespaceSet = syntax.NewTokenSet(Whitespace)
	commentSet    = syntax.NewTokenSet(HTMLComment)

	// blockStarts interrupt a paragraph.
	blockStarts = syntax.NewTokenSet(
		HeadingMarker, BlockquoteMarker, ListBullet, ListNumber,
		CodeFence, Rule, HTMLLine,
	)
	listMarkers = syntax.NewTokenSet(ListBullet, ListNumber)
	linkText    = syntax.NewTokenSet(LinkClose)
	noClosers   = syntax.NewTokenSet()
)

func init() {
	syntax.RegisterWhitespace(Whitespace)
}
