package verify

import (
	"fmt"

	"github.com/joshuapare/regionkit/layout"
	"github.com/joshuapare/regionkit/region"
	"github.com/joshuapare/regionkit/regiontype"
)

// NoAddress marks a ValidationError that is not tied to one address.
const NoAddress = ^uint64(0)

// ValidationError describes the first violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Address uint64
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Address != NoAddress {
		return fmt.Sprintf("%s at 0x%X: %s", e.Type, e.Address, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NonOverlap checks that tree's regions are well formed, sorted and
// pairwise disjoint.
func NonOverlap(tree *region.Tree) error {
	var prev *region.Region
	for r := range tree.All() {
		if r.LastAddress() < r.Address() {
			return &ValidationError{
				Type:    "NonOverlap",
				Message: fmt.Sprintf("inverted region %s", r),
				Address: r.Address(),
			}
		}
		if prev != nil && prev.LastAddress() >= r.Address() {
			return &ValidationError{
				Type:    "NonOverlap",
				Message: fmt.Sprintf("%s overlaps %s", prev, r),
				Address: r.Address(),
				Details: map[string]any{"previous": prev.String()},
			}
		}
		prev = r
	}
	return nil
}

// Contiguous checks that tree has no gaps between its first and last region.
func Contiguous(tree *region.Tree) error {
	if tree.Empty() {
		return nil
	}
	return Coverage(tree, tree.Front().Address(), tree.Back().LastAddress())
}

// Coverage checks that tree tiles [first, last] exactly.
func Coverage(tree *region.Tree, first, last uint64) error {
	if err := NonOverlap(tree); err != nil {
		return err
	}
	if tree.Empty() {
		return &ValidationError{Type: "Coverage", Message: "tree is empty", Address: first}
	}

	next := first
	for r := range tree.All() {
		if r.Address() != next {
			return &ValidationError{
				Type:    "Coverage",
				Message: fmt.Sprintf("expected a region at 0x%X, found %s", next, r),
				Address: next,
			}
		}
		if r.LastAddress() == last {
			if r != tree.Back() {
				return &ValidationError{
					Type:    "Coverage",
					Message: "regions continue past the end of the range",
					Address: r.EndAddress(),
				}
			}
			return nil
		}
		next = r.LastAddress() + 1
	}
	return &ValidationError{
		Type:    "Coverage",
		Message: fmt.Sprintf("range ends at 0x%X, regions stop at 0x%X", last, next-1),
		Address: next,
	}
}

// PairAddresses checks that every region in from derived from typeID links
// to a region in to of the same size whose pair links back.
func PairAddresses(from, to *region.Tree, typeID uint32) error {
	for r := range from.All() {
		if !r.IsDerivedFrom(typeID) {
			continue
		}
		if r.PairAddress() == region.UnsetPairAddress {
			return &ValidationError{
				Type:    "PairAddresses",
				Message: fmt.Sprintf("%s has no pair", r),
				Address: r.Address(),
			}
		}

		other := to.Find(r.PairAddress())
		switch {
		case other == nil:
			return &ValidationError{
				Type:    "PairAddresses",
				Message: fmt.Sprintf("pair 0x%X of %s is not in the target tree", r.PairAddress(), r),
				Address: r.Address(),
			}
		case other.Address() != r.PairAddress() || other.Size() != r.Size():
			return &ValidationError{
				Type:    "PairAddresses",
				Message: fmt.Sprintf("%s pairs with mismatched %s", r, other),
				Address: r.Address(),
				Details: map[string]any{"pair": other.String()},
			}
		case other.PairAddress() != r.Address():
			return &ValidationError{
				Type:    "PairAddresses",
				Message: fmt.Sprintf("%s does not pair back to 0x%X", other, r.Address()),
				Address: r.Address(),
			}
		}
	}
	return nil
}

// Mirrors checks that every region of sub also exists, identically, in full.
func Mirrors(sub, full *region.Tree) error {
	for r := range sub.All() {
		o := full.Find(r.Address())
		if o == nil || o.Address() != r.Address() || o.LastAddress() != r.LastAddress() ||
			o.Type() != r.Type() || o.Attributes() != r.Attributes() || o.PairAddress() != r.PairAddress() {
			return &ValidationError{
				Type:    "Mirrors",
				Message: fmt.Sprintf("%s has no identical region in the full tree", r),
				Address: r.Address(),
			}
		}
	}
	return nil
}

// Layout runs every check against a booted layout and returns the first
// failure.
func Layout(l *layout.Layout) error {
	for _, name := range layout.TreeNames {
		if err := NonOverlap(l.Trees()[name]); err != nil {
			return withTree(err, name)
		}
	}

	t := l.Table()
	vLast, _ := t.Virtual.Last()
	pLast, _ := t.Physical.Last()
	if err := Coverage(l.Virtual(), uint64(t.Virtual.Base), vLast); err != nil {
		return withTree(err, "virtual")
	}
	if err := Coverage(l.Physical(), uint64(t.Physical.Base), pLast); err != nil {
		return withTree(err, "physical")
	}

	checks := []struct {
		name     string
		from, to *region.Tree
		typeID   uint32
	}{
		{"physical", l.Physical(), l.Virtual(), regiontype.Dram.ID()},
		{"physical", l.Physical(), l.Virtual(), regiontype.AttrDidKernelMap},
		{"virtual", l.Virtual(), l.Physical(), regiontype.KernelMiscMappedDevice.ID()},
		{"virtual-linear", l.VirtualLinear(), l.Physical(), regiontype.Dram.ID()},
	}
	for _, c := range checks {
		if err := PairAddresses(c.from, c.to, c.typeID); err != nil {
			return withTree(err, c.name)
		}
	}

	if err := Mirrors(l.PhysicalLinear(), l.Physical()); err != nil {
		return withTree(err, "physical-linear")
	}
	if err := Mirrors(l.VirtualLinear(), l.Virtual()); err != nil {
		return withTree(err, "virtual-linear")
	}
	if err := Contiguous(l.PhysicalLinear()); err != nil {
		return withTree(err, "physical-linear")
	}

	if used, capacity := l.AllocatorUsage(); used > region.MaxRegions || capacity != region.MaxRegions {
		return &ValidationError{
			Type:    "Arena",
			Message: fmt.Sprintf("%d of %d slots used, bound is %d", used, capacity, region.MaxRegions),
			Address: NoAddress,
		}
	}
	return nil
}

func withTree(err error, tree string) error {
	if ve, ok := err.(*ValidationError); ok {
		if ve.Details == nil {
			ve.Details = map[string]any{}
		}
		ve.Details["tree"] = tree
	}
	return err
}
