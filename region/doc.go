// Package region tracks, classifies and hands out non-overlapping address
// ranges for an emulated guest kernel.
//
// # Overview
//
// Three pieces work together:
//
//   - Allocator: a fixed-capacity bump arena of Region slots (MaxRegions = 200)
//   - Region: an inclusive span with a pair address, attributes and a type bitmask
//   - Tree: an ordered, non-overlapping index of regions with split-on-insert
//     and randomized placement
//
// Regions are never freed. A Tree only indexes slots by Handle; the Allocator
// owns them for its whole lifetime.
//
// # Type Bitmasks
//
// A region's type is a bitmask in which a more specific type is a strict
// superset of its ancestor. Classification is a single bitwise test:
//
//	r.IsDerivedFrom(t) // (r.Type() | t) == r.Type(): r is a t
//	r.CanDerive(t)     // (r.Type() | t) == t:        t specializes r
//
// SetType only accepts specializations, so a region can never be reclassified
// into an unrelated category. See package regiontype for the kernel's lattice.
//
// # Usage Example
//
//	alloc := region.NewAllocator()
//	tree := region.NewTree(alloc)
//
//	// Seed with one region covering the managed space.
//	tree.InsertDirectly(0x0, 0xFFFF, 0, heap)
//
//	// Carve out a committed range. Prefix and suffix keep the old type.
//	if !tree.Insert(0x1000, 0x1000, heapCommitted, 1, 0) {
//	    // range not inside a single region that can take heapCommitted
//	}
//
//	r := tree.Find(0x1800) // [0x1000, 0x1FFF] heapCommitted
//
//	// Random page-aligned placement inside regions typed exactly heap.
//	base := tree.GetRandomAlignedRegion(0x1000, 0x1000, heap)
//
// # Failure Model
//
// Contract violations are layout bugs and panic with an error wrapping one
// of the sentinels in errors.go: arena exhaustion, overlapping direct
// inserts, an Insert into a region with unexpected attributes, extents of
// an absent type, randomized placement with no room, probing a zero-sized
// region. The one recoverable outcome is Insert returning false when the
// range does not fit a single region of a derivable type.
//
// # Randomized Placement
//
// GetRandomAlignedRegion enumerates every aligned start that fits inside a
// region of exactly the requested type and picks one uniformly. The default
// random source is ChaCha8 keyed from crypto/rand; SetRandomSource installs a
// seeded source for reproducible layouts.
//
// # Thread Safety
//
// Allocator and Tree are not thread-safe. One kernel-management context owns
// an address space at a time; callers synchronize externally.
package region
