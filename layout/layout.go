package layout

import (
	"fmt"
	"runtime"

	"github.com/joshuapare/regionkit/internal/entropy"
	"github.com/joshuapare/regionkit/region"
	"github.com/joshuapare/regionkit/regiontype"
)

// Options configures Build.
type Options struct {
	// RandomSource drives every randomized placement. It wins over Seed.
	RandomSource region.RandomSource

	// Seed, when set, makes the layout reproducible.
	Seed *uint64
}

// WithSeed returns Options for a reproducible layout.
func WithSeed(seed uint64) *Options {
	return &Options{Seed: &seed}
}

func (o *Options) source() region.RandomSource {
	switch {
	case o == nil:
		return entropy.New()
	case o.RandomSource != nil:
		return o.RandomSource
	case o.Seed != nil:
		return entropy.NewSeeded(*o.Seed)
	default:
		return entropy.New()
	}
}

// Layout is a booted kernel memory layout: four region trees sharing one
// arena, plus the linear mapping between DRAM and its virtual window.
type Layout struct {
	table *Table
	plan  *physPlan
	alloc *region.Allocator

	virtual        *region.Tree
	physical       *region.Tree
	virtualLinear  *region.Tree
	physicalLinear *region.Tree

	// linearDiff is virtual minus physical for every linearly mapped address.
	linearDiff uint64
}

// Build validates table and lays out a kernel for it. A nil table means
// DefaultTable. Failures after validation wrap ErrBootstrap.
func Build(table *Table, opts *Options) (l *Layout, err error) {
	if table == nil {
		table = DefaultTable()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	plan, err := table.plan()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	alloc := region.NewAllocator()
	l = &Layout{
		table:          table,
		plan:           plan,
		alloc:          alloc,
		virtual:        region.NewTree(alloc),
		physical:       region.NewTree(alloc),
		virtualLinear:  region.NewTree(alloc),
		physicalLinear: region.NewTree(alloc),
	}
	rng := opts.source()
	for _, t := range l.Trees() {
		t.SetRandomSource(rng)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if _, rt := r.(runtime.Error); !ok || rt {
			panic(r)
		}
		l, err = nil, fmt.Errorf("%w: %w", ErrBootstrap, e)
	}()

	l.bootstrap()
	return l, nil
}

// Table returns the table the layout was built from.
func (l *Layout) Table() *Table { return l.table }

// Allocator returns the arena shared by all four trees.
func (l *Layout) Allocator() *region.Allocator { return l.alloc }

// Virtual returns the kernel virtual address tree.
func (l *Layout) Virtual() *region.Tree { return l.virtual }

// Physical returns the physical address tree.
func (l *Layout) Physical() *region.Tree { return l.physical }

// VirtualLinear returns the virtual regions of the linear mapping.
func (l *Layout) VirtualLinear() *region.Tree { return l.virtualLinear }

// PhysicalLinear returns the linearly mapped physical regions.
func (l *Layout) PhysicalLinear() *region.Tree { return l.physicalLinear }

// Trees returns the four trees keyed by name. Range over TreeNames for a
// stable order.
func (l *Layout) Trees() map[string]*region.Tree {
	return map[string]*region.Tree{
		"virtual":         l.virtual,
		"physical":        l.physical,
		"virtual-linear":  l.virtualLinear,
		"physical-linear": l.physicalLinear,
	}
}

// TreeNames lists the keys of Trees in display order.
var TreeNames = []string{"virtual", "physical", "virtual-linear", "physical-linear"}

// FindVirtual returns the virtual region containing addr, or nil.
func (l *Layout) FindVirtual(addr uint64) *region.Region { return l.virtual.Find(addr) }

// FindPhysical returns the physical region containing addr, or nil.
func (l *Layout) FindPhysical(addr uint64) *region.Region { return l.physical.Find(addr) }

// FindVirtualLinear returns the linear window region containing addr, or nil.
func (l *Layout) FindVirtualLinear(addr uint64) *region.Region { return l.virtualLinear.Find(addr) }

// FindPhysicalLinear returns the linearly mapped physical region containing
// addr, or nil.
func (l *Layout) FindPhysicalLinear(addr uint64) *region.Region { return l.physicalLinear.Find(addr) }

// LinearVirtualAddress translates a linearly mapped physical address.
func (l *Layout) LinearVirtualAddress(phys uint64) uint64 { return phys + l.linearDiff }

// LinearPhysicalAddress translates a virtual address in the linear window.
func (l *Layout) LinearPhysicalAddress(virt uint64) uint64 { return virt - l.linearDiff }

// StackTopAddress returns the end of core's stack of the given type
// (KernelMiscMainStack, KernelMiscIdleStack or KernelMiscExceptionStack).
func (l *Layout) StackTopAddress(core int, stackType uint32) (uint64, bool) {
	r := l.virtual.FindByTypeAndAttribute(stackType, uint32(core))
	if r == nil {
		return 0, false
	}
	return r.EndAddress(), true
}

// IsHeapPhysicalAddress reports whether addr lies in a user pool.
func (l *Layout) IsHeapPhysicalAddress(addr uint64) bool {
	r := l.physicalLinear.Find(addr)
	return r != nil && r.IsDerivedFrom(regiontype.DramUserPool.ID())
}

// IsHeapVirtualAddress reports whether addr lies in the linear view of a
// user pool.
func (l *Layout) IsHeapVirtualAddress(addr uint64) bool {
	r := l.virtualLinear.Find(addr)
	return r != nil && r.IsDerivedFrom(regiontype.VirtualDramUserPool.ID())
}

// IsLinearMappedPhysicalAddress reports whether addr is reachable through
// the linear mapping.
func (l *Layout) IsLinearMappedPhysicalAddress(addr uint64) bool {
	r := l.physicalLinear.Find(addr)
	return r != nil && r.HasTypeAttribute(regiontype.AttrLinearMapped)
}

// TotalAndKernelMemorySizes returns the DRAM size and the part of it not
// handed to user pools.
func (l *Layout) TotalAndKernelMemorySizes() (total, kernel uint64) {
	for r := range l.physical.All() {
		if !r.IsDerivedFrom(regiontype.Dram.ID()) {
			continue
		}
		total += r.Size()
		if !r.IsDerivedFrom(regiontype.DramUserPool.ID()) {
			kernel += r.Size()
		}
	}
	return total, kernel
}

// AllocatorUsage returns the number of region slots used and available in
// total.
func (l *Layout) AllocatorUsage() (used, capacity int) {
	return l.alloc.Len(), l.alloc.Cap()
}
