package markdown

import (
	"io"
	"strings"

	"github.com/yaklabco/syntree/pkg/lexeme"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// Lexer tokenizes Markdown in a single pass over the text, line by line,
// and replays the result. The token stream covers every byte.
type Lexer struct {
	lexemes []lexeme.Lexeme
	next    int
}

// NewLexer returns a Markdown lexer.
func NewLexer() lexeme.Lexer {
	return &Lexer{}
}

// Reset implements lexeme.Lexer.
func (l *Lexer) Reset(text string) {
	l.lexemes = tokenize(text)
	l.next = 0
}

// Next implements lexeme.Lexer.
func (l *Lexer) Next() (lexeme.Lexeme, error) {
	if l.next >= len(l.lexemes) {
		return lexeme.Lexeme{}, io.EOF
	}
	lx := l.lexemes[l.next]
	l.next++
	return lx, nil
}

type tokenizer struct {
	content string
	tokens  []lexeme.Lexeme
	pos     int
}

func tokenize(content string) []lexeme.Lexeme {
	const initialCapacityDivisor = 4
	t := &tokenizer{
		content: content,
		tokens:  make([]lexeme.Lexeme, 0, len(content)/initialCapacityDivisor),
	}
	for t.pos < len(t.content) {
		t.tokenizeLine()
	}
	return t.tokens
}

// tokenizeLine handles line-start constructs, then inline content.
func (t *tokenizer) tokenizeLine() {
	t.consumeIndentation()

	if t.pos < len(t.content) {
		switch t.content[t.pos] {
		case '#':
			if t.tryHeadingMarker() {
				t.tokenizeInlineContent()
				return
			}
		case '>':
			t.emitBlockquoteMarker()
			t.tokenizeInlineContent()
			return
		case '-', '+', '*':
			if t.tryListBulletOrThematicBreak() {
				return
			}
		case '_':
			if t.isThematicBreak('_') {
				t.consumeThematicBreak()
				return
			}
		case '~', '`':
			if t.tryCodeFence() {
				return
			}
		case '=':
			if t.trySetextUnderline('=') {
				return
			}
		case '<':
			if t.tryHTMLLine() {
				return
			}
		}

		if t.pos < len(t.content) && isDigit(t.content[t.pos]) && t.tryOrderedListMarker() {
			t.tokenizeInlineContent()
			return
		}

		// A dash line that is neither a bullet nor a thematic break.
		if t.pos < len(t.content) && t.content[t.pos] == '-' && t.trySetextUnderline('-') {
			return
		}
	}

	t.tokenizeInlineContent()
}

func (t *tokenizer) consumeIndentation() {
	start := t.pos
	for t.pos < len(t.content) && isBlank(t.content[t.pos]) {
		t.pos++
	}
	if t.pos > start {
		t.emit(Whitespace, start)
	}
}

// tryHeadingMarker reads 1 to 6 '#' followed by a blank or end of line.
func (t *tokenizer) tryHeadingMarker() bool {
	const maxLevel = 6

	start := t.pos
	end := start
	for end < len(t.content) && t.content[end] == '#' {
		end++
	}
	if level := end - start; level > maxLevel {
		return false
	}
	if end < len(t.content) && !isBlank(t.content[end]) && !isLineEnd(t.content[end]) {
		return false
	}

	t.emit(HeadingMarker, start)
	t.pos = end
	if t.pos < len(t.content) && isBlank(t.content[t.pos]) {
		t.emit(Whitespace, t.pos)
		t.pos++
	}
	return true
}

func (t *tokenizer) emitBlockquoteMarker() {
	t.emit(BlockquoteMarker, t.pos)
	t.pos++
	if t.pos < len(t.content) && t.content[t.pos] == ' ' {
		t.emit(Whitespace, t.pos)
		t.pos++
	}
}

// tryListBulletOrThematicBreak handles '-', '+' and '*', which start either
// a thematic break or a bullet followed by a blank.
func (t *tokenizer) tryListBulletOrThematicBreak() bool {
	if t.isThematicBreak(t.content[t.pos]) {
		t.consumeThematicBreak()
		return true
	}

	next := t.pos + 1
	if next >= len(t.content) || !isBlank(t.content[next]) {
		return false
	}
	t.emit(ListBullet, t.pos)
	t.emit(Whitespace, next)
	t.pos = next + 1
	t.tokenizeInlineContent()
	return true
}

// isThematicBreak reports whether the rest of the line is at least three
// marker characters, optionally separated by blanks.
func (t *tokenizer) isThematicBreak(marker byte) bool {
	const minMarkers = 3

	count := 0
	for pos := t.pos; pos < len(t.content) && !isLineEnd(t.content[pos]); pos++ {
		switch ch := t.content[pos]; {
		case ch == marker:
			count++
		case !isBlank(ch):
			return false
		}
	}
	return count >= minMarkers
}

func (t *tokenizer) consumeThematicBreak() {
	t.emit(Rule, t.pos)
	t.pos = t.lineEnd(t.pos)
	t.consumeNewline()
}

// tryCodeFence reads an opening fence of three or more '`' or '~', its info
// string, and the whole block up to and including the closing fence.
func (t *tokenizer) tryCodeFence() bool {
	const minFence = 3

	start := t.pos
	fenceChar := t.content[start]
	end := start
	for end < len(t.content) && t.content[end] == fenceChar {
		end++
	}
	if end-start < minFence {
		return false
	}

	t.emit(CodeFence, start)
	t.pos = end
	if t.pos < len(t.content) && !isLineEnd(t.content[t.pos]) {
		t.emit(CodeInfo, t.pos)
		t.pos = t.lineEnd(t.pos)
	}
	t.consumeNewline()
	t.consumeCodeBlockContent(fenceChar, end-start)
	return true
}

// consumeCodeBlockContent emits the lines before the closing fence as one
// lazy token, then the closing fence line. Without a closing fence the
// content runs to the end of the text.
func (t *tokenizer) consumeCodeBlockContent(fenceChar byte, fenceLen int) {
	contentStart := t.pos
	for t.pos < len(t.content) {
		lineStart := t.pos
		if t.tryClosingFence(fenceChar, fenceLen, contentStart) {
			return
		}
		t.pos = t.lineEnd(lineStart)
		t.skipNewline()
	}
	if t.pos > contentStart {
		t.emit(CodeContent, contentStart)
	}
}

func (t *tokenizer) tryClosingFence(fenceChar byte, fenceLen, contentStart int) bool {
	const maxIndent = 3

	lineStart := t.pos
	fenceStart := lineStart
	for fenceStart < len(t.content) && t.content[fenceStart] == ' ' && fenceStart-lineStart < maxIndent {
		fenceStart++
	}
	fenceEnd := fenceStart
	for fenceEnd < len(t.content) && t.content[fenceEnd] == fenceChar {
		fenceEnd++
	}
	if fenceEnd-fenceStart < fenceLen {
		return false
	}
	restEnd := t.lineEnd(fenceEnd)
	if strings.TrimLeft(t.content[fenceEnd:restEnd], " \t") != "" {
		return false
	}

	if lineStart > contentStart {
		t.emit(CodeContent, contentStart)
	}
	if lineStart < fenceStart {
		t.emit(Whitespace, lineStart)
	}
	t.emit(CodeFence, fenceStart)
	if fenceEnd < restEnd {
		t.emit(Whitespace, fenceEnd)
	}
	t.pos = restEnd
	t.consumeNewline()
	return true
}

// trySetextUnderline reads a line of char optionally followed by blanks.
func (t *tokenizer) trySetextUnderline(char byte) bool {
	end := t.pos
	for end < len(t.content) && t.content[end] == char {
		end++
	}
	if end == t.pos {
		return false
	}
	restEnd := t.lineEnd(end)
	if strings.TrimLeft(t.content[end:restEnd], " \t") != "" {
		return false
	}

	t.emit(SetextUnderline, t.pos)
	t.pos = restEnd
	t.consumeNewline()
	return true
}

// tryOrderedListMarker reads digits, then '.' or ')', then a blank.
func (t *tokenizer) tryOrderedListMarker() bool {
	end := t.pos
	for end < len(t.content) && isDigit(t.content[end]) {
		end++
	}
	if end == t.pos || end >= len(t.content) {
		return false
	}
	if delim := t.content[end]; delim != '.' && delim != ')' {
		return false
	}
	end++
	if end >= len(t.content) || !isBlank(t.content[end]) {
		return false
	}

	t.emit(ListNumber, t.pos)
	t.emit(Whitespace, end)
	t.pos = end + 1
	return true
}

// tryHTMLLine treats a line starting with '<' as raw HTML. A line holding
// exactly one comment becomes a single comment token, newline included.
func (t *tokenizer) tryHTMLLine() bool {
	start := t.pos
	end := t.lineEnd(start)
	line := strings.TrimRight(t.content[start:end], " \t")

	if isComment(line) {
		t.emit(HTMLComment, start)
		t.pos = end
		t.skipNewline()
		return true
	}

	t.emit(HTMLLine, start)
	t.pos = end
	t.consumeNewline()
	return true
}

func isComment(line string) bool {
	const open, closing = "<!--", "-->"
	if len(line) < len(open)+len(closing) || !strings.HasPrefix(line, open) || !strings.HasSuffix(line, closing) {
		return false
	}
	return !strings.Contains(line[len(open):len(line)-len(closing)], closing)
}

func (t *tokenizer) tokenizeInlineContent() {
	for t.pos < len(t.content) {
		ch := t.content[t.pos]
		if isLineEnd(ch) {
			t.consumeNewline()
			return
		}

		switch ch {
		case '\\':
			t.consumeEscapedChar()
		case '`':
			t.consumeRun(Backtick)
		case '*', '_':
			t.consumeRun(EmphasisMarker)
		case '[':
			t.emitSingle(LinkOpen)
		case ']':
			t.emitSingle(LinkClose)
		case '(':
			t.emitSingle(ParenOpen)
		case ')':
			t.emitSingle(ParenClose)
		case '!':
			t.emitSingle(ImageMarker)
		case '<':
			t.consumeInlineHTML()
		case ' ', '\t':
			t.consumeBlanks()
		default:
			t.consumeText()
		}
	}
}

func (t *tokenizer) consumeEscapedChar() {
	start := t.pos
	t.pos++
	if t.pos < len(t.content) && isPunctuation(t.content[t.pos]) {
		t.pos++
		t.emit(EscapedChar, start)
		return
	}
	t.emit(Text, start)
}

// consumeRun reads a run of the character under the cursor.
func (t *tokenizer) consumeRun(typ syntax.ElementType) {
	start := t.pos
	ch := t.content[start]
	for t.pos < len(t.content) && t.content[t.pos] == ch {
		t.pos++
	}
	t.emit(typ, start)
}

func (t *tokenizer) consumeInlineHTML() {
	start := t.pos
	t.pos++
	for t.pos < len(t.content) && t.content[t.pos] != '>' && !isLineEnd(t.content[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.content) && t.content[t.pos] == '>' {
		t.pos++
		t.emit(InlineHTML, start)
		return
	}
	t.emit(Text, start)
}

func (t *tokenizer) consumeBlanks() {
	start := t.pos
	for t.pos < len(t.content) && isBlank(t.content[t.pos]) {
		t.pos++
	}
	t.emit(Whitespace, start)
}

func (t *tokenizer) consumeText() {
	start := t.pos
	for t.pos < len(t.content) && !strings.ContainsRune("\\`*_[]()!< \t\n\r", rune(t.content[t.pos])) {
		t.pos++
	}
	if t.pos > start {
		t.emit(Text, start)
	}
}

// consumeNewline emits a newline token for LF or CRLF.
func (t *tokenizer) consumeNewline() {
	start := t.pos
	if t.skipNewline() {
		t.emit(Newline, start)
	}
}

func (t *tokenizer) skipNewline() bool {
	if t.pos >= len(t.content) {
		return false
	}
	switch t.content[t.pos] {
	case '\r':
		t.pos++
		if t.pos < len(t.content) && t.content[t.pos] == '\n' {
			t.pos++
		}
	case '\n':
		t.pos++
	default:
		return false
	}
	return true
}

func (t *tokenizer) lineEnd(pos int) int {
	for pos < len(t.content) && !isLineEnd(t.content[pos]) {
		pos++
	}
	return pos
}

func (t *tokenizer) emit(typ syntax.ElementType, start int) {
	t.tokens = append(t.tokens, lexeme.Lexeme{Type: typ, Start: start})
}

func (t *tokenizer) emitSingle(typ syntax.ElementType) {
	t.emit(typ, t.pos)
	t.pos++
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

func isLineEnd(b byte) bool {
	return b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isPunctuation reports whether b is ASCII punctuation, which can be escaped.
func isPunctuation(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}
