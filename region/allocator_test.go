package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_Allocate(t *testing.T) {
	a := NewAllocator()
	require.Equal(t, MaxRegions, a.Cap())
	require.Equal(t, 0, a.Len())

	r := a.Allocate(0x1000, 0x1FFF, UnsetPairAddress, 2, testHeap)
	assert.Equal(t, uint64(0x1000), r.Address())
	assert.Equal(t, uint64(0x1FFF), r.LastAddress())
	assert.Equal(t, uint32(2), r.Attributes())
	assert.Equal(t, testHeap, r.Type())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, MaxRegions-1, a.Available())
}

// TestAllocator_StablePointers checks regions keep their identity as the
// arena fills.
func TestAllocator_StablePointers(t *testing.T) {
	a := NewAllocatorWithCapacity(16)
	var regions []*Region
	for i := range 16 {
		base := uint64(i) * 0x1000
		regions = append(regions, a.Allocate(base, base+0xFFF, UnsetPairAddress, 0, 0))
	}

	for i, r := range regions {
		assert.Equal(t, Handle(i), r.Handle())
		assert.Same(t, r, a.At(r.Handle()))
		assert.Equal(t, uint64(i)*0x1000, r.Address())
	}
}

// TestAllocator_Exhaustion allocates past a capacity of two.
func TestAllocator_Exhaustion(t *testing.T) {
	a := NewAllocatorWithCapacity(2)

	a.Allocate(0, 0xFFF, UnsetPairAddress, 0, 0)
	a.Allocate(0x1000, 0x1FFF, UnsetPairAddress, 0, 0)

	requireFatal(t, ErrArenaExhausted, func() {
		a.Allocate(0x2000, 0x2FFF, UnsetPairAddress, 0, 0)
	})
	assert.Equal(t, 2, a.Len(), "failed allocation must not consume a slot")
}

func TestAllocator_AtUnallocated(t *testing.T) {
	a := NewAllocatorWithCapacity(4)
	a.Allocate(0, 0xFFF, UnsetPairAddress, 0, 0)

	requireFatal(t, ErrInvalidRegion, func() {
		a.At(3)
	})
}
