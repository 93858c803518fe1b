// Package align provides address alignment helpers for the region layout code.
package align

// Down returns v rounded down to a multiple of a.
//
// Example:
//
//	Down(0x1234, 0x1000) = 0x1000
func Down(v, a uint64) uint64 {
	return v - v%a
}

// Up returns v rounded up to a multiple of a. The result wraps if the
// rounded value does not fit in 64 bits; use UpChecked when that matters.
//
// Example:
//
//	Up(0x1001, 0x1000) = 0x2000
//	Up(0x1000, 0x1000) = 0x1000
func Up(v, a uint64) uint64 {
	r, _ := UpChecked(v, a)
	return r
}

// UpChecked is Up with overflow detection. ok is false when the rounded
// value would exceed the 64-bit address space.
func UpChecked(v, a uint64) (r uint64, ok bool) {
	rem := v % a
	if rem == 0 {
		return v, true
	}
	r = v + (a - rem)
	return r, r > v
}

// IsAligned reports whether v is a multiple of a.
func IsAligned(v, a uint64) bool {
	return v%a == 0
}
