package region

import (
	"math/bits"

	"github.com/joshuapare/regionkit/internal/align"
	"github.com/joshuapare/regionkit/internal/entropy"
)

// RandomSource supplies the randomness for layout randomization.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	Uint64() uint64
	Uint64N(n uint64) uint64
}

// SetRandomSource replaces the tree's random source. Without one the tree
// uses a ChaCha8 generator keyed from crypto/rand on first use.
func (t *Tree) SetRandomSource(src RandomSource) {
	t.rng = src
}

func (t *Tree) random() RandomSource {
	if t.rng == nil {
		t.rng = entropy.New()
	}
	return t.rng
}

// GetRandomAlignedRegion picks a random alignment-aligned address r such
// that [r, r+size) lies inside a single region whose type is exactly typeID.
// Every valid r across all such regions is equally likely. A layout with no
// room is fatal.
func (t *Tree) GetRandomAlignedRegion(size, alignment uint64, typeID uint32) uint64 {
	return t.place(size, alignment, typeID, 0)
}

// GetRandomAlignedRegionWithGuard is GetRandomAlignedRegion with guardSize
// bytes of the same region kept free on both sides of the returned range.
// The returned address itself is aligned.
func (t *Tree) GetRandomAlignedRegionWithGuard(size, alignment uint64, typeID uint32, guardSize uint64) uint64 {
	return t.place(size, alignment, typeID, guardSize)
}

// candidateSpan describes the aligned starts available in one region:
// first, first+alignment, ..., first+lastIndex*alignment.
type candidateSpan struct {
	first     uint64
	lastIndex uint64
}

func (t *Tree) place(size, alignment uint64, typeID uint32, guard uint64) uint64 {
	if size == 0 || alignment == 0 {
		fatalf(ErrBadRequest, "size=0x%X alignment=0x%X", size, alignment)
	}
	// Offset from the returned address to the last byte of the trailing guard.
	tail, c := bits.Add64(size-1, guard, 0)
	if c != 0 {
		fatalf(ErrBadRequest, "size=0x%X guard=0x%X overflows the address space", size, guard)
	}

	var (
		spans []candidateSpan
		total uint64
		carry uint64
	)
	for r := range t.All() {
		if r.typeID != typeID {
			continue
		}
		span, ok := candidates(r, alignment, guard, tail)
		if !ok {
			continue
		}
		spans = append(spans, span)

		var c uint64
		total, c = bits.Add64(total, span.lastIndex, 0)
		carry |= c
		total, c = bits.Add64(total, 1, 0)
		carry |= c
	}

	if len(spans) == 0 {
		fatalf(ErrNoRoom, "size=0x%X alignment=0x%X guard=0x%X type=0x%X", size, alignment, guard, typeID)
	}

	// Distinct starts are distinct addresses, so the count can reach 2^64
	// but never exceed it; a carry means every 64-bit index is valid.
	var k uint64
	if carry != 0 {
		k = t.random().Uint64()
	} else {
		k = t.random().Uint64N(total)
	}

	for _, s := range spans {
		if k <= s.lastIndex {
			return s.first + k*alignment
		}
		k -= s.lastIndex + 1
	}

	// Unreachable: k < total.
	panic("region: candidate index out of range")
}

// candidates returns the aligned starts r in region reg for which
// [r-guard, r+tail] stays inside the region.
func candidates(reg *Region, alignment, guard, tail uint64) (candidateSpan, bool) {
	lo, c := bits.Add64(reg.address, guard, 0)
	if c != 0 {
		return candidateSpan{}, false
	}
	if reg.lastAddress < tail {
		return candidateSpan{}, false
	}
	hi := reg.lastAddress - tail
	if hi < lo {
		return candidateSpan{}, false
	}

	first, ok := align.UpChecked(lo, alignment)
	if !ok || first > hi {
		return candidateSpan{}, false
	}
	return candidateSpan{first: first, lastIndex: (hi - first) / alignment}, true
}
