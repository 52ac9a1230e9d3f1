package builder

import "github.com/yaklabco/syntree/pkg/syntax"

// none is the null record id.
const none = -1

// maxFreeRecords caps each free list; slots released beyond it are abandoned.
const maxFreeRecords = 2000

type recordKind uint8

const (
	kindFree recordKind = iota
	kindStart
	kindDone
	kindError
)

// record is one entry of the production log. The fields in use depend on kind.
type record struct {
	kind   recordKind
	gen    uint32
	lexeme int
	binder EdgeBinder

	// Links rebuilt by assembly. next is also used by error items.
	parent int
	first  int
	last   int
	next   int

	// Start records.
	typ       syntax.ElementType
	done      int
	hash      int
	hashValid bool
	stack     []uintptr

	// Done records. Error items use message only.
	start      int
	collapse   bool
	hasMessage bool
	message    string
}

// slab stores records in one growable slice and recycles freed slots per kind.
// Each release bumps the slot generation so stale Marker handles are detected.
type slab struct {
	records []record
	free    [kindError + 1][]int
}

func (s *slab) alloc(kind recordKind) int {
	var id int
	if list := s.free[kind]; len(list) > 0 {
		id = list[len(list)-1]
		s.free[kind] = list[:len(list)-1]
	} else {
		id = len(s.records)
		s.records = append(s.records, record{})
	}

	gen := s.records[id].gen
	s.records[id] = record{
		kind:   kind,
		gen:    gen,
		parent: none,
		first:  none,
		last:   none,
		next:   none,
		done:   none,
		start:  none,
		binder: defaultBinderFor(kind),
	}

	return id
}

func (s *slab) release(id int) {
	rec := &s.records[id]
	kind := rec.kind
	if kind == kindFree {
		return
	}

	*rec = record{kind: kindFree, gen: rec.gen + 1}

	if len(s.free[kind]) < maxFreeRecords {
		s.free[kind] = append(s.free[kind], id)
	}
}

func (s *slab) get(id int) *record {
	return &s.records[id]
}

func defaultBinderFor(kind recordKind) EdgeBinder {
	if kind == kindStart {
		return DefaultLeft
	}
	return DefaultRight
}
