package region

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testHeap          uint32 = 0x1
	testHeapCommitted uint32 = 0x3
	testStack         uint32 = 0x4
	testGuard         uint32 = 0x8
)

// requireFatal runs fn and asserts it panics with an error wrapping want.
func requireFatal(t *testing.T, want error, fn func()) {
	t.Helper()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()

	require.NotNil(t, recovered, "expected a fatal panic wrapping %v", want)
	err, ok := recovered.(error)
	require.True(t, ok, "panic value should be an error, got %T", recovered)
	require.True(t, errors.Is(err, want), "panic %v should wrap %v", err, want)
}

// collect returns the tree's regions in address order.
func collect(t *testing.T, tree *Tree) []*Region {
	t.Helper()
	var out []*Region
	for r := range tree.All() {
		out = append(out, r)
	}
	return out
}

// requireCovers asserts the tree is a gap-free, non-overlapping cover of
// [first, last].
func requireCovers(t *testing.T, tree *Tree, first, last uint64) {
	t.Helper()

	regions := collect(t, tree)
	require.NotEmpty(t, regions)
	require.Equal(t, first, regions[0].Address(), "cover should start at 0x%X", first)
	require.Equal(t, last, regions[len(regions)-1].LastAddress(), "cover should end at 0x%X", last)

	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		require.LessOrEqual(t, cur.Address(), cur.LastAddress())
		require.Equal(t, prev.LastAddress()+1, cur.Address(),
			"region %d %s does not follow %s", i, cur, prev)
	}
}

func newSeededTree(t *testing.T, first, last uint64, attr, typeID uint32) *Tree {
	t.Helper()
	tree := NewTree(NewAllocator())
	tree.InsertDirectly(first, last, attr, typeID)
	return tree
}
