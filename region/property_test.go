package region

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Property_RandomSplits performs random reclassifying inserts and checks
// after every step that the tree still covers the seeded range exactly once
// and that point lookups agree with iteration.
func Test_Property_RandomSplits(t *testing.T) {
	const last = 0xF_FFFF
	tree := newSeededTree(t, 0, last, 0, testHeap)
	rng := rand.New(rand.NewPCG(42, 0)) // Fixed seed for reproducibility

	accepted := 0
	for step := range 300 {
		if tree.Allocator().Available() < 2 {
			break
		}

		address := rng.Uint64N(last+1) &^ 0xFFF
		size := (1 + rng.Uint64N(8)) * 0x1000
		typeID := testHeap | uint32(1<<(1+rng.IntN(4)))

		before := tree.Find(address)
		require.NotNil(t, before, "step %d: 0x%X not covered", step, address)
		wantOK := before.Attributes() == 0 &&
			address+size-1 <= before.LastAddress() &&
			before.CanDerive(typeID)

		ok := tree.Insert(address, size, typeID, 0, 0)
		require.Equal(t, wantOK, ok, "step %d: Insert(0x%X, 0x%X, 0x%X)", step, address, size, typeID)
		if ok {
			accepted++
			got := tree.Find(address)
			require.Equal(t, address, got.Address())
			require.Equal(t, address+size-1, got.LastAddress())
			require.Equal(t, typeID, got.Type())
		}

		requireCovers(t, tree, 0, last)
	}

	for r := range tree.All() {
		require.Same(t, r, tree.Find(r.Address()))
		require.Same(t, r, tree.Find(r.LastAddress()))
	}
	t.Logf("%d inserts accepted, %d regions, %d slots used", accepted, tree.Len(), tree.Allocator().Len())
}
