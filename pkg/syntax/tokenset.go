package syntax

import (
	"math/bits"
	"strings"
	"sync"
)

const wordBits = 64

// TokenSet is an immutable set of element types.
// The zero value is the empty set.
type TokenSet struct {
	words []uint64
}

// NewTokenSet returns a set holding types.
func NewTokenSet(types ...ElementType) TokenSet {
	var set TokenSet
	for _, t := range types {
		word := int(t) / wordBits
		for len(set.words) <= word {
			set.words = append(set.words, 0)
		}
		set.words[word] |= 1 << (uint(t) % wordBits)
	}
	return set
}

// Or returns the union of sets.
func Or(sets ...TokenSet) TokenSet {
	var out TokenSet
	for _, set := range sets {
		for len(out.words) < len(set.words) {
			out.words = append(out.words, 0)
		}
		for i, w := range set.words {
			out.words[i] |= w
		}
	}
	return out
}

// Contains reports whether t is in the set.
func (s TokenSet) Contains(t ElementType) bool {
	word := int(t) / wordBits
	if word >= len(s.words) {
		return false
	}
	return s.words[word]&(1<<(uint(t)%wordBits)) != 0
}

// Len returns the number of types in the set.
func (s TokenSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Types lists the members in ascending order.
func (s TokenSet) Types() []ElementType {
	out := make([]ElementType, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, ElementType(i*wordBits+bit))
			w &^= 1 << uint(bit)
		}
	}
	return out
}

// String renders the set as [A, B].
func (s TokenSet) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

//nolint:gochecknoglobals // Whitespace types known to every language.
var (
	anyWhitespaceMu sync.RWMutex
	anyWhitespace   TokenSet
)

// RegisterWhitespace adds t to the whitespace types shared by all languages.
// The diff comparator treats an old whitespace leaf as matching any of them.
func RegisterWhitespace(t ElementType) {
	anyWhitespaceMu.Lock()
	defer anyWhitespaceMu.Unlock()
	anyWhitespace = Or(anyWhitespace, NewTokenSet(t))
}

// AnyWhitespace returns the types added with RegisterWhitespace.
func AnyWhitespace() TokenSet {
	anyWhitespaceMu.RLock()
	defer anyWhitespaceMu.RUnlock()
	return anyWhitespace
}
