package region

// MaxRegions is the number of slots in a default Allocator. The static
// kernel layout never needs more.
const MaxRegions = 200

// Allocator is a fixed-capacity bump arena of Region slots.
//
// Key characteristics:
//   - O(1) allocation: the next slot is always the first unused one
//   - No Free: regions live as long as the allocator
//   - No growth: the backing slice is sized once, so *Region pointers stay valid
//
// Running out of slots is a layout bug and panics with ErrArenaExhausted.
// Allocator instances are not thread-safe.
type Allocator struct {
	slots []Region
	count int
}

// NewAllocator creates an Allocator with MaxRegions slots.
func NewAllocator() *Allocator {
	return NewAllocatorWithCapacity(MaxRegions)
}

// NewAllocatorWithCapacity creates an Allocator with exactly n slots.
func NewAllocatorWithCapacity(n int) *Allocator {
	if n < 0 {
		n = 0
	}
	return &Allocator{slots: make([]Region, n)}
}

// Allocate constructs a region in the next free slot and returns it.
func (a *Allocator) Allocate(address, lastAddress, pairAddress uint64, attributes, typeID uint32) *Region {
	if a.count >= len(a.slots) {
		fatalf(ErrArenaExhausted, "all %d slots in use", len(a.slots))
	}

	r := &a.slots[a.count]
	r.reset(address, lastAddress, pairAddress, attributes, typeID)
	r.handle = Handle(a.count)
	a.count++

	return r
}

// At resolves a handle issued by this allocator.
func (a *Allocator) At(h Handle) *Region {
	if int(h) >= a.count {
		fatalf(ErrInvalidRegion, "handle %d not allocated (%d in use)", h, a.count)
	}
	return &a.slots[h]
}

// Available returns the number of unused slots.
func (a *Allocator) Available() int { return len(a.slots) - a.count }

// Len returns the number of slots handed out.
func (a *Allocator) Len() int { return a.count }

// Cap returns the total number of slots.
func (a *Allocator) Cap() int { return len(a.slots) }
