package builder

import "fmt"

// balance moves every inner log item across the run of trivia around it to
// where its edge binder puts it. The first and last items keep their place.
func (b *Builder) balance() error {
	count := b.lex.Count
	for i := 1; i < len(b.production)-1; i++ {
		id := b.production[i]
		rec := b.slab.get(id)
		if rec.kind == kindStart && rec.done == none {
			return fmt.Errorf("balance %s marker at offset %d: %w",
				rec.typ, b.lex.Start(rec.lexeme), ErrUnbalanced)
		}

		prev := b.slab.get(b.production[i-1]).lexeme
		wsStart := rec.lexeme
		for wsStart > prev && b.isTrivia(b.lex.Types[wsStart-1]) {
			wsStart--
		}
		wsEnd := rec.lexeme
		for wsEnd < count && b.isTrivia(b.lex.Types[wsEnd]) {
			wsEnd++
		}

		tokens := b.lex.TypesIn(wsStart, wsEnd)
		atEdge := wsStart == 0 || wsEnd == count
		pos := rec.binder.EdgePosition(tokens, atEdge, func(k int) string {
			return b.lex.TokenText(wsStart + k)
		})
		if pos < 0 || pos > len(tokens) {
			if b.settings.debug {
				b.fail(fmt.Sprintf("edge binder returned %d for %d trivia tokens", pos, len(tokens)),
					b.ownerOf(id), none, nil)
			}
			pos = min(max(pos, 0), len(tokens))
		}
		rec.lexeme = wsStart + pos
	}
	return nil
}

// ownerOf returns the start record behind a log item, for diagnostics.
func (b *Builder) ownerOf(id int) int {
	if rec := b.slab.get(id); rec.kind == kindDone {
		return rec.start
	}
	return id
}
