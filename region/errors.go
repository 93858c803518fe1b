package region

import (
	"errors"
	"fmt"
)

// Every error below is fatal: the region code panics with a
// value wrapping one of them. They exist so that callers and tests can
// classify a recovered panic with errors.Is.
var (
	// ErrArenaExhausted indicates that an Allocator ran out of region slots.
	ErrArenaExhausted = errors.New("region: arena exhausted")

	// ErrInvalidRegion indicates a query against a zero-sized default region.
	ErrInvalidRegion = errors.New("region: invalid region")

	// ErrBadDerivation indicates a retype that would contradict the current type.
	ErrBadDerivation = errors.New("region: type cannot be derived")

	// ErrAttributeMismatch indicates an Insert whose containing region does
	// not carry the attributes the caller expected.
	ErrAttributeMismatch = errors.New("region: attribute mismatch")

	// ErrOverlap indicates a directly inserted region overlapping an existing one.
	ErrOverlap = errors.New("region: overlapping insert")

	// ErrNoDerivedRegion indicates an extents query for a type with no members.
	ErrNoDerivedRegion = errors.New("region: no region derives from type")

	// ErrNoRoom indicates that no region of the requested type can hold a
	// randomized placement.
	ErrNoRoom = errors.New("region: no room for randomized placement")

	// ErrBadRequest indicates a malformed placement request (zero size or
	// alignment, or a window that overflows the address space).
	ErrBadRequest = errors.New("region: bad placement request")
)

// fatalf panics with an error wrapping err.
func fatalf(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}
