package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlabRecyclesPerKind(t *testing.T) {
	t.Parallel()

	var s slab
	start := s.alloc(kindStart)
	done := s.alloc(kindDone)
	require.Equal(t, []int{0, 1}, []int{start, done})
	assert.Equal(t, none, s.get(start).done)
	assert.Equal(t, none, s.get(done).start)

	gen := s.get(start).gen
	s.release(start)
	assert.Equal(t, kindFree, s.get(start).kind)
	assert.Equal(t, gen+1, s.get(start).gen)

	// Releasing twice does not put the slot on the list again.
	s.release(start)
	assert.Len(t, s.free[kindStart], 1)

	assert.Equal(t, 2, s.alloc(kindError), "free start slots are not handed to other kinds")
	assert.Equal(t, start, s.alloc(kindStart))
	assert.Equal(t, gen+1, s.get(start).gen)
}

func TestSlabFreeListIsCapped(t *testing.T) {
	t.Parallel()

	var s slab
	ids := make([]int, maxFreeRecords+10)
	for i := range ids {
		ids[i] = s.alloc(kindDone)
	}
	for _, id := range ids {
		s.release(id)
	}
	assert.Len(t, s.free[kindDone], maxFreeRecords)
}

func TestProduction(t *testing.T) {
	t.Parallel()

	var p production
	assert.Equal(t, none, p.last())

	p.add(1)
	p.add(3)
	p.insert(1, 2)
	p.insert(0, 0)
	assert.Equal(t, production{0, 1, 2, 3}, p)
	assert.Equal(t, 3, p.last())

	p.add(1)
	assert.Equal(t, 4, p.lastIndexOf(1))
	assert.Equal(t, -1, p.lastIndexOf(9))

	assert.Equal(t, 1, p.removeAt(4))
	p.truncate(2)
	assert.Equal(t, production{0, 1}, p)
}
