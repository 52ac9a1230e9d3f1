package builder

import (
	"github.com/yaklabco/syntree/pkg/syntax"
)

// Marker is a handle to an open or closed start marker.
// Handles are invalidated when the marker is dropped, rolled back over, or
// recycled after assembly; using a stale handle is a usage error.
type Marker struct {
	b   *Builder
	id  int
	gen uint32
}

// Mark opens a marker at the current token. Every call after the first skips
// trivia first, so markers never start on whitespace or comments.
func (b *Builder) Mark() Marker {
	b.ensureLive()
	if len(b.production) > 0 {
		b.skipWhitespace()
	}
	m := b.newStart(b.current)
	b.production.add(m.id)
	return m
}

func (b *Builder) newStart(lexemeIndex int) Marker {
	id := b.slab.alloc(kindStart)
	rec := b.slab.get(id)
	rec.lexeme = lexemeIndex
	if b.settings.debug {
		rec.stack = captureStack()
	}
	return Marker{b: b, id: id, gen: rec.gen}
}

// record returns the start record behind the handle, failing on stale handles.
func (m Marker) record() *record {
	if m.b == nil {
		panic(&UsageError{Message: "zero Marker", cause: ErrStaleMarker})
	}
	m.b.ensureLive()
	if m.id < 0 || m.id >= len(m.b.slab.records) {
		m.b.fail("marker handle out of range", none, none, ErrStaleMarker)
	}
	rec := m.b.slab.get(m.id)
	if rec.gen != m.gen || rec.kind != kindStart {
		m.b.fail("marker was dropped, rolled back or recycled", none, none, ErrStaleMarker)
	}
	return rec
}

// Type returns the type assigned when the marker was closed.
func (m Marker) Type() syntax.ElementType {
	return m.record().typ
}

// IsDone reports whether the marker has been closed.
func (m Marker) IsDone() bool {
	return m.record().done != none
}

// Precede opens a new marker at the same token, placed just before m in the
// log, so that the node of m can be wrapped after the fact.
func (m Marker) Precede() Marker {
	rec := m.record()
	b := m.b
	idx := b.production.lastIndexOf(m.id)
	if idx < 0 {
		b.fail("cannot precede a dropped or rolled back marker", m.id, none, nil)
	}
	pre := b.newStart(rec.lexeme)
	b.production.insert(idx, pre.id)
	return pre
}

// Done closes the marker at the cursor with type t.
func (m Marker) Done(t syntax.ElementType) {
	m.record().typ = t
	m.b.validate(m, nil)
	m.b.closeAt(m, m.b.current, len(m.b.production), t.IsLeftBound())
}

// Collapse closes the marker like Done, and the whole span becomes a single
// leaf of type t.
func (m Marker) Collapse(t syntax.ElementType) {
	m.Done(t)
	done := m.record().done
	m.b.slab.get(done).collapse = true
}

// DoneBefore closes the marker with type t where before starts.
func (m Marker) DoneBefore(t syntax.ElementType, before Marker) {
	m.record().typ = t
	before.record()
	m.b.validate(m, &before)
	b := m.b
	b.closeAt(m, b.slab.get(before.id).lexeme, b.beforeIndex(m, before), t.IsLeftBound())
}

// DoneBeforeWithError closes the marker like DoneBefore and reports an error
// just ahead of before.
func (m Marker) DoneBeforeWithError(t syntax.ElementType, before Marker, message string) {
	beforeRec := before.record()
	b := m.b
	idx := b.production.lastIndexOf(before.id)
	if idx < 0 {
		b.fail("'before' marker has never been added", m.id, before.id, nil)
	}
	lexemeIndex := beforeRec.lexeme

	id := b.slab.alloc(kindError)
	item := b.slab.get(id)
	item.lexeme = lexemeIndex
	item.message = message
	b.production.insert(idx, id)

	m.DoneBefore(t, before)
}

// Error closes the marker at the cursor as an error node carrying message.
func (m Marker) Error(message string) {
	m.record().typ = syntax.Error
	m.b.validate(m, nil)
	done := m.b.closeAt(m, m.b.current, len(m.b.production), true)
	m.b.setMessage(done, message)
}

// ErrorBefore closes the marker as an error node ending where before starts.
func (m Marker) ErrorBefore(message string, before Marker) {
	m.record().typ = syntax.Error
	before.record()
	m.b.validate(m, &before)
	b := m.b
	done := b.closeAt(m, b.slab.get(before.id).lexeme, b.beforeIndex(m, before), true)
	b.setMessage(done, message)
}

// Drop removes the marker from the log without producing a node. Dropping a
// closed marker, or one that is no longer in the log, is a usage error.
func (m Marker) Drop() {
	rec := m.record()
	b := m.b
	if rec.done != none {
		b.fail("cannot drop a marker that is already done", m.id, none, nil)
	}
	idx := b.production.lastIndexOf(m.id)
	if idx < 0 {
		b.fail("the marker must be added before it is dropped", m.id, none, nil)
	}
	if b.settings.debug {
		b.checkNoOpenAfter(m, idx, len(b.production))
	}
	b.production.removeAt(idx)
	b.slab.release(m.id)
}

// RollbackTo restores the cursor to where the marker was opened and removes
// the marker and everything logged after it.
func (m Marker) RollbackTo() {
	rec := m.record()
	b := m.b
	idx := b.production.lastIndexOf(m.id)
	if idx < 0 {
		b.fail("the marker must be added before it is rolled back to", m.id, none, nil)
	}

	b.current = rec.lexeme
	b.checked = true

	for _, id := range b.production[idx:] {
		dropped := b.slab.get(id)
		if dropped.kind == kindDone && dropped.start != none {
			// A marker opened earlier but closed after m loses its close.
			if owner := b.slab.get(dropped.start); owner.kind == kindStart && owner.done == id {
				owner.done = none
			}
		}
	}
	for _, id := range b.production[idx:] {
		b.slab.release(id)
	}
	b.production.truncate(idx)
}

// SetCustomEdgeTokenBinders replaces the trivia binders at the start and end
// of the marker's node. A nil binder keeps the current one. The right binder
// can only be set once the marker is closed.
func (m Marker) SetCustomEdgeTokenBinders(left, right EdgeBinder) {
	rec := m.record()
	if left != nil {
		rec.binder = left
	}
	if right != nil {
		if rec.done == none {
			m.b.fail("cannot set the right edge binder of an unclosed marker", m.id, none, nil)
		}
		m.b.slab.get(rec.done).binder = right
	}
}

// closeAt appends a done record for m at lexemeIndex, inserted at log position
// at. tieCandidate enables tying an empty node to the preceding trivia.
func (b *Builder) closeAt(m Marker, lexemeIndex, at int, tieCandidate bool) int {
	done := b.slab.alloc(kindDone)
	doneRec := b.slab.get(done)
	doneRec.start = m.id
	doneRec.lexeme = lexemeIndex

	start := b.slab.get(m.id)
	if tieCandidate && b.isEmpty(start.lexeme, lexemeIndex) {
		start.binder = DefaultRight
	}
	start.done = done

	if at >= len(b.production) {
		b.production.add(done)
	} else {
		b.production.insert(at, done)
	}
	return done
}

func (b *Builder) beforeIndex(m, before Marker) int {
	idx := b.production.lastIndexOf(before.id)
	if idx < 0 {
		b.fail("'before' marker has never been added", m.id, before.id, nil)
	}
	return idx
}

func (b *Builder) setMessage(done int, message string) {
	rec := b.slab.get(done)
	rec.hasMessage = true
	rec.message = message
}

// validate runs the debug-mode checks before closing m.
func (b *Builder) validate(m Marker, before *Marker) {
	if !b.settings.debug {
		return
	}

	rec := b.slab.get(m.id)
	if rec.done != none {
		b.fail("marker already done", m.id, none, nil)
	}
	idx := b.production.lastIndexOf(m.id)
	if idx < 0 {
		b.fail("marker has never been added", m.id, none, nil)
	}

	end := len(b.production)
	if before != nil {
		end = b.production.lastIndexOf(before.id)
		if end < 0 {
			b.fail("'before' marker has never been added", m.id, before.id, nil)
		}
		if idx > end {
			b.fail("'before' marker precedes this one", m.id, before.id, nil)
		}
	}

	b.checkNoOpenAfter(m, idx, end)
}

func (b *Builder) checkNoOpenAfter(m Marker, idx, end int) {
	for i := end - 1; i > idx; i-- {
		other := b.production[i]
		rec := b.slab.get(other)
		if rec.kind == kindStart && rec.done == none {
			b.fail("another not done marker added after this one; it must be done before this one",
				m.id, other, nil)
		}
	}
}
