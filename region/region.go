package region

import (
	"fmt"
	"math"
)

// UnsetPairAddress marks a region that has no paired mapping.
const UnsetPairAddress uint64 = math.MaxUint64

// Handle identifies an arena slot. Handles are stable for the life of the
// Allocator that issued them.
type Handle uint32

// Region is an inclusive address span tagged with an attribute word and a
// hierarchical type bitmask.
//
// Regions live in Allocator slots; trees index them by Handle. Bounds are
// only changed by the owning Tree while the region is out of the index.
type Region struct {
	address     uint64
	lastAddress uint64
	pairAddress uint64
	attributes  uint32
	typeID      uint32

	handle Handle
}

// Compare orders regions for the tree. lhs sorts before rhs when it starts
// below rhs, compares equal when its start falls inside rhs, and sorts after
// otherwise. A zero-length probe therefore compares equal to the region
// that contains the probed address.
func Compare(lhs, rhs *Region) int {
	switch {
	case lhs.address < rhs.address:
		return -1
	case lhs.address <= rhs.lastAddress:
		return 0
	default:
		return 1
	}
}

func (r *Region) reset(address, lastAddress, pairAddress uint64, attributes, typeID uint32) {
	r.address = address
	r.lastAddress = lastAddress
	r.pairAddress = pairAddress
	r.attributes = attributes
	r.typeID = typeID
}

// Handle returns the arena slot holding r.
func (r *Region) Handle() Handle { return r.handle }

// Address returns the first address of the region.
func (r *Region) Address() uint64 { return r.address }

// LastAddress returns the last address (inclusive) of the region.
func (r *Region) LastAddress() uint64 { return r.lastAddress }

// EndAddress returns the first address past the region. It is zero for a
// region that ends at the top of the 64-bit space, and for an unset region.
func (r *Region) EndAddress() uint64 { return r.lastAddress + 1 }

// Size returns the number of bytes covered.
func (r *Region) Size() uint64 { return r.EndAddress() - r.address }

// PairAddress returns the linked address, or UnsetPairAddress.
func (r *Region) PairAddress() uint64 { return r.pairAddress }

// Attributes returns the attribute word.
func (r *Region) Attributes() uint32 { return r.attributes }

// Type returns the type bitmask.
func (r *Region) Type() uint32 { return r.typeID }

// SetType retypes the region. The new type must be at least as specific as
// the current one.
func (r *Region) SetType(typeID uint32) {
	if !r.CanDerive(typeID) {
		fatalf(ErrBadDerivation, "region [0x%X, 0x%X] type 0x%X cannot become 0x%X",
			r.address, r.lastAddress, r.typeID, typeID)
	}
	r.typeID = typeID
}

// Contains reports whether address lies within the region.
func (r *Region) Contains(address uint64) bool {
	if r.EndAddress() == 0 {
		fatalf(ErrInvalidRegion, "contains query on region [0x%X, 0x%X]", r.address, r.lastAddress)
	}
	return r.address <= address && address <= r.lastAddress
}

// IsDerivedFrom reports whether the region's type includes every bit of typeID.
func (r *Region) IsDerivedFrom(typeID uint32) bool {
	return r.typeID|typeID == r.typeID
}

// HasTypeAttribute reports whether attr is set in the type bitmask.
func (r *Region) HasTypeAttribute(attr uint32) bool {
	return r.typeID|attr == r.typeID
}

// CanDerive reports whether typeID includes every bit of the region's type,
// that is, whether retyping to typeID only specializes the region.
func (r *Region) CanDerive(typeID uint32) bool {
	return r.typeID|typeID == typeID
}

// SetPairAddress links the region to address.
func (r *Region) SetPairAddress(address uint64) { r.pairAddress = address }

// SetTypeAttribute ORs attr into the type bitmask without a derivation check.
func (r *Region) SetTypeAttribute(attr uint32) { r.typeID |= attr }

// String formats the region for logs and diagnostics.
func (r *Region) String() string {
	s := fmt.Sprintf("[0x%016X, 0x%016X] type=0x%08X attr=0x%X", r.address, r.lastAddress, r.typeID, r.attributes)
	if r.pairAddress != UnsetPairAddress {
		s += fmt.Sprintf(" pair=0x%016X", r.pairAddress)
	}
	return s
}
