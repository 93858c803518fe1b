package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regionkit/layout"
	"github.com/joshuapare/regionkit/region"
)

func newTree(spans ...[2]uint64) *region.Tree {
	tree := region.NewTree(region.NewAllocator())
	for _, s := range spans {
		tree.InsertDirectly(s[0], s[1], 0, 0x2)
	}
	return tree
}

func requireValidationError(t *testing.T, err error, typ, contains string) {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %T", err)
	require.Equal(t, typ, ve.Type)
	require.Contains(t, ve.Message, contains)
}

// TestNonOverlap_Valid tests a sorted, disjoint tree.
func TestNonOverlap_Valid(t *testing.T) {
	tree := newTree([2]uint64{0x2000, 0x2FFF}, [2]uint64{0x0, 0xFFF}, [2]uint64{0x5000, 0x5FFF})
	require.NoError(t, NonOverlap(tree))
	require.NoError(t, NonOverlap(newTree()))
}

// TestCoverage tests tiling of a closed range.
func TestCoverage(t *testing.T) {
	tiled := newTree([2]uint64{0x0, 0xFFF}, [2]uint64{0x1000, 0x1FFF})
	require.NoError(t, Coverage(tiled, 0x0, 0x1FFF))
	require.NoError(t, Contiguous(tiled))

	gap := newTree([2]uint64{0x0, 0xFFF}, [2]uint64{0x2000, 0x2FFF})
	requireValidationError(t, Coverage(gap, 0x0, 0x2FFF), "Coverage", "expected a region at 0x1000")
	requireValidationError(t, Contiguous(gap), "Coverage", "expected a region at 0x1000")

	requireValidationError(t, Coverage(tiled, 0x0, 0x2FFF), "Coverage", "range ends at 0x2FFF")
	requireValidationError(t, Coverage(tiled, 0x0, 0xFFF), "Coverage", "continue past")
	requireValidationError(t, Coverage(tiled, 0x800, 0x1FFF), "Coverage", "expected a region at 0x800")
	requireValidationError(t, Coverage(newTree(), 0x0, 0xFFF), "Coverage", "empty")
	require.NoError(t, Contiguous(newTree()))
}

// TestCoverage_TopOfAddressSpace tests a range ending at the last address.
func TestCoverage_TopOfAddressSpace(t *testing.T) {
	top := ^uint64(0)
	tree := newTree([2]uint64{top - 0xFFF, top})
	require.NoError(t, Coverage(tree, top-0xFFF, top))
}

// TestPairAddresses tests cross-tree links.
func TestPairAddresses(t *testing.T) {
	build := func() (*region.Tree, *region.Tree) {
		alloc := region.NewAllocator()
		a, b := region.NewTree(alloc), region.NewTree(alloc)
		a.InsertDirectly(0x1000, 0x1FFF, 0, 0x2)
		a.InsertDirectly(0x4000, 0x4FFF, 0, 0x1)
		b.InsertDirectly(0x9000, 0x9FFF, 0, 0x6)
		a.Find(0x1000).SetPairAddress(0x9000)
		b.Find(0x9000).SetPairAddress(0x1000)
		return a, b
	}

	a, b := build()
	require.NoError(t, PairAddresses(a, b, 0x2))
	require.NoError(t, PairAddresses(b, a, 0x2))

	a, b = build()
	b.Find(0x9000).SetPairAddress(0x1800)
	requireValidationError(t, PairAddresses(a, b, 0x2), "PairAddresses", "does not pair back")

	a, b = build()
	a.Find(0x1000).SetPairAddress(0x9800)
	requireValidationError(t, PairAddresses(a, b, 0x2), "PairAddresses", "mismatched")

	a, b = build()
	a.Find(0x1000).SetPairAddress(0x20000)
	requireValidationError(t, PairAddresses(a, b, 0x2), "PairAddresses", "not in the target tree")

	a, b = build()
	a.Find(0x1000).SetPairAddress(region.UnsetPairAddress)
	requireValidationError(t, PairAddresses(a, b, 0x2), "PairAddresses", "has no pair")

	// Regions outside the filter are ignored.
	a, b = build()
	require.NoError(t, PairAddresses(a, b, 0x2))
	requireValidationError(t, PairAddresses(a, b, 0x1), "PairAddresses", "has no pair")
}

// TestMirrors tests that a sub-tree copies the full tree.
func TestMirrors(t *testing.T) {
	alloc := region.NewAllocator()
	full, sub := region.NewTree(alloc), region.NewTree(alloc)
	full.InsertDirectly(0x0, 0xFFF, 1, 0x2)
	full.InsertDirectly(0x1000, 0x1FFF, 0, 0x4)
	sub.InsertDirectly(0x0, 0xFFF, 1, 0x2)
	require.NoError(t, Mirrors(sub, full))

	sub.InsertDirectly(0x1000, 0x1FFF, 0, 0x6)
	requireValidationError(t, Mirrors(sub, full), "Mirrors", "no identical region")
}

// TestLayout_Default tests that booted layouts pass every check.
func TestLayout_Default(t *testing.T) {
	for seed := range uint64(8) {
		l, err := layout.Build(nil, layout.WithSeed(seed))
		require.NoError(t, err)
		require.NoError(t, Layout(l), "seed %d", seed)
	}
}

// TestLayout_DetectsBrokenPair tests that a broken link is reported with
// its tree.
func TestLayout_DetectsBrokenPair(t *testing.T) {
	l, err := layout.Build(nil, layout.WithSeed(1))
	require.NoError(t, err)

	l.Physical().Find(0x80060000).SetPairAddress(0)

	err = Layout(l)
	requireValidationError(t, err, "PairAddresses", "")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "physical", ve.Details["tree"])
	require.Equal(t, uint64(0x80060000), ve.Address)
}

// TestValidationError_Format tests both message shapes.
func TestValidationError_Format(t *testing.T) {
	e := &ValidationError{Type: "Coverage", Message: "gap", Address: 0x1000}
	require.Equal(t, "Coverage at 0x1000: gap", e.Error())

	e = &ValidationError{Type: "Arena", Message: "full", Address: NoAddress}
	require.Equal(t, "Arena: full", e.Error())
}
