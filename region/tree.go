package region

import (
	"iter"

	"github.com/google/btree"
)

// treeDegree is the B-tree fan-out for the region index. Layouts hold at
// most a few hundred regions, so a small degree keeps nodes cache friendly.
const treeDegree = 8

// entry is the index key for one region. The bounds are copied out of the
// arena slot so the index never reads a region while the tree is resizing it.
type entry struct {
	first uint64
	last  uint64
	h     Handle
}

// entryLess orders disjoint spans by address. Two spans that overlap compare
// equal, so a single-address probe finds the region containing it; this is
// the B-tree form of Compare.
func entryLess(a, b entry) bool {
	return a.last < b.first
}

func entryOf(r *Region) entry {
	return entry{first: r.address, last: r.lastAddress, h: r.handle}
}

// Tree is an ordered collection of non-overlapping regions drawn from an
// Allocator.
//
// A tree is built in a bootstrap phase (InsertDirectly, Insert) and then
// queried (Find*, GetRandomAlignedRegion*), with occasional Insert calls to
// reclassify a sub-range. Trees are not thread-safe; callers hold one lock
// per address space.
type Tree struct {
	alloc *Allocator
	index *btree.BTreeG[entry]
	rng   RandomSource
}

// NewTree creates an empty tree that allocates split regions from alloc.
func NewTree(alloc *Allocator) *Tree {
	return &Tree{
		alloc: alloc,
		index: btree.NewG[entry](treeDegree, entryLess),
	}
}

// Allocator returns the arena backing the tree.
func (t *Tree) Allocator() *Allocator { return t.alloc }

// Len returns the number of regions in the tree.
func (t *Tree) Len() int { return t.index.Len() }

// Empty reports whether the tree has no regions.
func (t *Tree) Empty() bool { return t.index.Len() == 0 }

// Front returns the lowest region, or nil.
func (t *Tree) Front() *Region {
	e, ok := t.index.Min()
	if !ok {
		return nil
	}
	return t.alloc.At(e.h)
}

// Back returns the highest region, or nil.
func (t *Tree) Back() *Region {
	e, ok := t.index.Max()
	if !ok {
		return nil
	}
	return t.alloc.At(e.h)
}

// All iterates the regions in address order. The loop body may mutate type,
// attribute-in-type and pair fields of the yielded region but must not
// insert into this tree.
func (t *Tree) All() iter.Seq[*Region] {
	return func(yield func(*Region) bool) {
		t.index.Ascend(func(e entry) bool {
			return yield(t.alloc.At(e.h))
		})
	}
}

// Find returns the region containing address, or nil when the address is
// not covered. The returned region may be modified through its setters.
func (t *Tree) Find(address uint64) *Region {
	e, ok := t.index.Get(entry{first: address, last: address})
	if !ok {
		return nil
	}
	return t.alloc.At(e.h)
}

// FindByType returns the first region whose type equals typeID exactly.
func (t *Tree) FindByType(typeID uint32) *Region {
	for r := range t.All() {
		if r.typeID == typeID {
			return r
		}
	}
	return nil
}

// FindByTypeAndAttribute returns the first region whose type and
// attributes both match exactly.
func (t *Tree) FindByTypeAndAttribute(typeID, attr uint32) *Region {
	for r := range t.All() {
		if r.typeID == typeID && r.attributes == attr {
			return r
		}
	}
	return nil
}

// FindFirstDerived returns the lowest region derived from typeID.
func (t *Tree) FindFirstDerived(typeID uint32) *Region {
	for r := range t.All() {
		if r.IsDerivedFrom(typeID) {
			return r
		}
	}
	return nil
}

// FindLastDerived returns the highest region derived from typeID.
func (t *Tree) FindLastDerived(typeID uint32) *Region {
	var found *Region
	for r := range t.All() {
		if r.IsDerivedFrom(typeID) {
			found = r
		}
	}
	return found
}

// DerivedRegionExtents spans every region derived from one type: from the
// start of the first to the end of the last. Regions of other types may lie
// in between.
type DerivedRegionExtents struct {
	First *Region
	Last  *Region
}

// Address returns the start of the extents.
func (e DerivedRegionExtents) Address() uint64 { return e.First.Address() }

// LastAddress returns the inclusive end of the extents.
func (e DerivedRegionExtents) LastAddress() uint64 { return e.Last.LastAddress() }

// EndAddress returns the first address past the extents.
func (e DerivedRegionExtents) EndAddress() uint64 { return e.LastAddress() + 1 }

// Size returns the number of bytes spanned.
func (e DerivedRegionExtents) Size() uint64 { return e.EndAddress() - e.Address() }

// GetDerivedRegionExtents returns the extents of all regions derived from
// typeID. The layout guarantees such regions exist; none is fatal.
func (t *Tree) GetDerivedRegionExtents(typeID uint32) DerivedRegionExtents {
	var ext DerivedRegionExtents
	for r := range t.All() {
		if r.IsDerivedFrom(typeID) {
			if ext.First == nil {
				ext.First = r
			}
			ext.Last = r
		}
	}

	if ext.First == nil || ext.Last == nil {
		fatalf(ErrNoDerivedRegion, "type 0x%X", typeID)
	}
	return ext
}

// InsertDirectly adds a region without splitting anything. It is meant for
// bulk seeding with spans the caller knows to be disjoint; an overlap is
// fatal.
func (t *Tree) InsertDirectly(address, lastAddress uint64, attr, typeID uint32) {
	if lastAddress < address {
		fatalf(ErrInvalidRegion, "direct insert [0x%X, 0x%X]", address, lastAddress)
	}
	if e, ok := t.index.Get(entry{first: address, last: lastAddress}); ok {
		fatalf(ErrOverlap, "[0x%X, 0x%X] overlaps %s", address, lastAddress, t.alloc.At(e.h))
	}
	t.insert(t.alloc.Allocate(address, lastAddress, UnsetPairAddress, attr, typeID))
}

// Insert carves [address, address+size) out of the single region that
// contains it and gives the carved piece typeID and newAttr. Whatever is
// left before and after keeps the old type and attributes.
//
// Insert returns false and leaves the tree unchanged when:
//   - size is zero or the range wraps past the top of the address space
//   - no region contains address
//   - the range runs past the end of the containing region
//   - the containing region cannot derive typeID
//
// A containing region whose attributes are not oldAttr is a caller bug and
// panics with ErrAttributeMismatch.
//
// Pair addresses follow the split: each piece keeps its offset from the
// original pair address.
func (t *Tree) Insert(address, size uint64, typeID, newAttr, oldAttr uint32) bool {
	if size == 0 {
		return false
	}
	insertedLast := address + size - 1
	if insertedLast < address {
		return false
	}

	found := t.Find(address)
	if found == nil {
		return false
	}
	if found.lastAddress < insertedLast {
		return false
	}
	if found.attributes != oldAttr {
		fatalf(ErrAttributeMismatch, "%s expected attr 0x%X", found, oldAttr)
	}
	if !found.CanDerive(typeID) {
		return false
	}

	oldAddress := found.address
	oldLast := found.lastAddress
	oldPair := found.pairAddress
	oldType := found.typeID

	// Fail before touching the index so an exhausted arena never leaves a hole.
	needed := 0
	if oldAddress != address {
		needed++
	}
	if oldLast != insertedLast {
		needed++
	}
	if needed > t.alloc.Available() {
		fatalf(ErrArenaExhausted, "split of %s needs %d slots, %d free", found, needed, t.alloc.Available())
	}

	t.index.Delete(entryOf(found))

	if oldAddress == address {
		// The carved piece starts the old region, so it can reuse the slot.
		found.reset(address, insertedLast, oldPair, newAttr, typeID)
		t.insert(found)
	} else {
		found.reset(oldAddress, address-1, oldPair, oldAttr, oldType)
		t.insert(found)

		t.insert(t.alloc.Allocate(address, insertedLast, offsetPair(oldPair, address-oldAddress), newAttr, typeID))
	}

	if oldLast != insertedLast {
		after := insertedLast + 1
		t.insert(t.alloc.Allocate(after, oldLast, offsetPair(oldPair, after-oldAddress), oldAttr, oldType))
	}

	return true
}

func (t *Tree) insert(r *Region) {
	t.index.ReplaceOrInsert(entryOf(r))
}

func offsetPair(pair, delta uint64) uint64 {
	if pair == UnsetPairAddress {
		return pair
	}
	return pair + delta
}
