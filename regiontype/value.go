package regiontype

import "fmt"

// typeBits is the width of a region type id.
const typeBits = 32

// Value builds one node of the region type lattice.
//
// A derived value always includes every bit of its parent, so the bitwise
// subset test in region.Region.IsDerivedFrom answers "is a". nextBit tracks
// the first bit the next derivation may claim. Misusing the builder (deriving
// from a finalized value, running out of bits, mixing sparse and dense
// derivations where the parent forbids it) is a programming error and
// panics.
type Value struct {
	value      uint32
	nextBit    int
	finalized  bool
	sparseOnly bool
	denseOnly  bool
}

// ID returns the type id stored in regions.
func (v Value) ID() uint32 { return v.value }

// Finalize marks v as a leaf.
func (v Value) Finalize() Value {
	v.finalized = true
	return v
}

// SetSparseOnly restricts derivations from v to DeriveSparse.
func (v Value) SetSparseOnly() Value {
	v.sparseOnly = true
	return v
}

// SetDenseOnly restricts derivations from v to Derive.
func (v Value) SetDenseOnly() Value {
	v.denseOnly = true
	return v
}

// SetAttribute ORs attr into v.
func (v Value) SetAttribute(attr uint32) Value {
	v.value |= attr
	return v
}

// Advance skips n bits before the next derivation.
func (v Value) Advance(n int) Value {
	v.mustDerive("Advance")
	v.nextBit += n
	v.checkBits("Advance")
	return v
}

// DeriveInitial starts a root category at bit i; its children start at next.
func (v Value) DeriveInitial(i, next int) Value {
	v.mustDerive("DeriveInitial")
	if v.sparseOnly || v.denseOnly {
		panic("regiontype: DeriveInitial from a restricted value")
	}
	if v.value != 0 {
		panic(fmt.Sprintf("regiontype: DeriveInitial from non-root value 0x%X", v.value))
	}
	if i < 0 || i >= typeBits {
		panic(fmt.Sprintf("regiontype: DeriveInitial bit %d out of range", i))
	}
	return Value{value: 1 << i, nextBit: next}
}

// DeriveAttribute returns a child that differs from v only by attr.
func (v Value) DeriveAttribute(attr uint32) Value {
	v.mustDerive("DeriveAttribute")
	child := Value{value: v.value | attr, nextBit: v.nextBit}
	return child
}

// DeriveTransition returns the single child that sets bit nextBit+ofs and
// moves the next free bit forward by adv.
func (v Value) DeriveTransition(ofs, adv int) Value {
	v.mustDerive("DeriveTransition")
	if v.sparseOnly {
		panic("regiontype: DeriveTransition from a sparse-only value")
	}
	if v.nextBit+ofs >= typeBits {
		panic(fmt.Sprintf("regiontype: DeriveTransition bit %d out of range", v.nextBit+ofs))
	}
	child := Value{value: v.value | 1<<(v.nextBit+ofs), nextBit: v.nextBit + adv}
	child.checkBits("DeriveTransition")
	return child
}

// Next is DeriveTransition(0, 1).
func (v Value) Next() Value { return v.DeriveTransition(0, 1) }

// DeriveSparse returns child i of n siblings that share a marker bit at
// nextBit+ofs and each own one further bit.
func (v Value) DeriveSparse(ofs, n, i int) Value {
	v.mustDerive("DeriveSparse")
	if v.denseOnly {
		panic("regiontype: DeriveSparse from a dense-only value")
	}
	if i < 0 || i >= n {
		panic(fmt.Sprintf("regiontype: DeriveSparse child %d of %d", i, n))
	}
	child := Value{
		value:   v.value | 1<<(v.nextBit+ofs) | 1<<(v.nextBit+ofs+1+i),
		nextBit: v.nextBit + ofs + n + 1,
	}
	child.checkBits("DeriveSparse")
	return child
}

// Derive returns child i of n siblings encoded densely: each child owns a
// distinct pair of bits out of BitsForDeriveDense(n).
func (v Value) Derive(n, i int) Value {
	v.mustDerive("Derive")
	if v.sparseOnly {
		panic("regiontype: Derive from a sparse-only value")
	}
	if i < 0 || i >= n {
		panic(fmt.Sprintf("regiontype: Derive child %d of %d", i, n))
	}
	low, high := densePair(i)
	child := Value{
		value:   v.value | 1<<(v.nextBit+low) | 1<<(v.nextBit+high),
		nextBit: v.nextBit + BitsForDeriveDense(n),
	}
	child.checkBits("Derive")
	return child
}

// IsAncestorOf reports whether other is derived from v.
func (v Value) IsAncestorOf(other uint32) bool {
	return v.value|other == other
}

// IsDerivedFrom reports whether v is derived from other.
func (v Value) IsDerivedFrom(other uint32) bool {
	return other|v.value == v.value
}

// BitsForDeriveSparse is the number of bits n sparse siblings consume.
func BitsForDeriveSparse(n int) int { return n + 1 }

// BitsForDeriveDense is the smallest bit count whose distinct pairs can
// number n siblings.
func BitsForDeriveDense(n int) int {
	_, high := densePair(n - 1)
	return high + 1
}

// densePair returns the i-th pair in the order (0,1) (0,2) (1,2) (0,3) ...
func densePair(i int) (low, high int) {
	low, high = 0, 1
	for range i {
		low++
		if low == high {
			high++
			low = 0
		}
	}
	return low, high
}

func (v Value) mustDerive(op string) {
	if v.finalized {
		panic(fmt.Sprintf("regiontype: %s from finalized value 0x%X", op, v.value))
	}
}

func (v Value) checkBits(op string) {
	if v.nextBit > typeBits {
		panic(fmt.Sprintf("regiontype: %s exhausts type bits (next=%d)", op, v.nextBit))
	}
}
