package layout

import (
	"fmt"

	"github.com/joshuapare/regionkit/internal/align"
	"github.com/joshuapare/regionkit/internal/logger"
	"github.com/joshuapare/regionkit/region"
	rt "github.com/joshuapare/regionkit/regiontype"
)

// must panics with ErrBootstrap when a tree rejects an insert. Build turns
// the panic into an error.
func must(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrBootstrap, fmt.Sprintf(format, args...)))
	}
}

func (l *Layout) bootstrap() {
	t, p := l.table, l.plan
	vt, pt := l.virtual, l.physical

	// Roots.
	vLast, _ := t.Virtual.Last()
	pLast, _ := t.Physical.Last()
	vt.InsertDirectly(uint64(t.Virtual.Base), vLast, 0, rt.None.ID())
	pt.InsertDirectly(uint64(t.Physical.Base), pLast, 0, rt.None.ID())

	// Kernel region around the code.
	codeStart, codeSize := uint64(t.Code.VirtualBase), uint64(t.Code.Size)
	kStart, kLast := kernelRegion(codeStart, codeStart+codeSize-1)
	must(vt.Insert(kStart, kLast-kStart+1, rt.Kernel.ID(), 0, 0), "kernel region at 0x%X", kStart)
	must(vt.Insert(codeStart, codeSize, rt.KernelCode.ID(), 0, 0), "kernel code at 0x%X", codeStart)
	logger.Debug("kernel region", "start", hex(kStart), "last", hex(kLast), "code", hex(codeStart))

	l.insertDevices()

	miscSize := l.miscRegionSize()
	misc := vt.GetRandomAlignedRegionWithGuard(miscSize, KernelAslrAlignment, rt.Kernel.ID(), KernelAslrAlignment)
	must(vt.Insert(misc, miscSize, rt.KernelMisc.ID(), 0, 0), "kernel misc at 0x%X", misc)

	stack := vt.GetRandomAlignedRegionWithGuard(KernelStackRegionSize, KernelAslrAlignment, rt.Kernel.ID(), KernelAslrAlignment)
	must(vt.Insert(stack, KernelStackRegionSize, rt.KernelStack.ID(), 0, 0), "kernel stack at 0x%X", stack)

	// The virtual slab shares its offset within a KernelAslrAlignment block
	// with the physical slab so both can use the same large pages.
	phase := p.slab.addr % KernelAslrAlignment
	slabWindow := vt.GetRandomAlignedRegionWithGuard(phase+p.slab.size, KernelAslrAlignment, rt.Kernel.ID(), KernelAslrAlignment)
	slab := slabWindow + phase
	must(vt.Insert(slab, p.slab.size, rt.KernelSlab.ID(), 0, 0), "kernel slab at 0x%X", slab)

	temp := vt.GetRandomAlignedRegionWithGuard(KernelTempRegionSize, KernelAslrAlignment, rt.Kernel.ID(), KernelAslrAlignment)
	must(vt.Insert(temp, KernelTempRegionSize, rt.KernelTemp.ID(), 0, 0), "kernel temp at 0x%X", temp)

	logger.Debug("kernel virtual regions",
		"misc", hex(misc), "misc_size", hex(miscSize),
		"stack", hex(stack), "slab", hex(slab), "temp", hex(temp))

	l.mapDevices()
	l.insertDram()
	l.insertLinearMapping()
	l.insertInitPageTable()
	l.insertPools()
	l.insertCoreStacks()
	l.buildLinearTrees()

	used, capacity := l.AllocatorUsage()
	logger.Debug("layout ready", "regions", used, "capacity", capacity)
}

// miscRegionSize reserves room for every core's stacks and every mapped
// device, each with a page guard on both sides, and triples it so random
// placement inside the region rarely runs out of room.
func (l *Layout) miscRegionSize() uint64 {
	t := l.table
	perStack := uint64(t.StackSize) + 2*PageSize
	need := uint64(t.Cores) * 3 * perStack
	for _, d := range t.Devices {
		if d.Map {
			need += uint64(d.Size) + 2*PageSize
		}
	}
	return max(KernelMiscMinSize, align.Up(3*need, KernelAslrAlignment))
}

func (l *Layout) insertDevices() {
	for _, d := range l.table.Devices {
		typ, _ := rt.Parse(d.Type) // validated
		if d.Map {
			typ |= rt.AttrShouldKernelMap
		}
		must(l.physical.Insert(uint64(d.Address), uint64(d.Size), typ, 0, 0),
			"device %s at 0x%X", d.Name, d.Address)
		logger.Debug("device", "name", d.Name, "address", hex(uint64(d.Address)), "type", rt.Name(typ))
	}
}

// mapDevices gives every device that asked for it a guarded virtual window
// in KernelMisc and links the two regions through their pair addresses.
func (l *Layout) mapDevices() {
	var pending []*region.Region
	for r := range l.physical.All() {
		if r.HasTypeAttribute(rt.AttrShouldKernelMap) && !r.HasTypeAttribute(rt.AttrDidKernelMap) {
			pending = append(pending, r)
		}
	}

	for _, r := range pending {
		virt := l.virtual.GetRandomAlignedRegionWithGuard(r.Size(), PageSize, rt.KernelMisc.ID(), PageSize)
		must(l.virtual.Insert(virt, r.Size(), rt.KernelMiscMappedDevice.ID(), 0, 0),
			"device mapping at 0x%X", virt)
		l.virtual.Find(virt).SetPairAddress(r.Address())

		r.SetTypeAttribute(rt.AttrDidKernelMap)
		r.SetPairAddress(virt)
		logger.Debug("mapped device", "phys", hex(r.Address()), "virt", hex(virt))
	}
}

func (l *Layout) insertDram() {
	p, pt := l.plan, l.physical

	must(pt.Insert(p.dram.addr, p.dram.size, rt.Dram.ID(), 0, 0), "dram at 0x%X", p.dram.addr)
	if p.reservedEarly.size > 0 {
		must(pt.Insert(p.reservedEarly.addr, p.reservedEarly.size, rt.DramReservedEarly.ID(), 0, 0),
			"reserved early at 0x%X", p.reservedEarly.addr)
	}
	must(pt.Insert(p.code.addr, p.code.size, rt.DramKernelCode.ID(), 0, 0), "kernel code at 0x%X", p.code.addr)
	must(pt.Insert(p.slab.addr, p.slab.size, rt.DramKernelSlab.ID(), 0, 0), "kernel slab at 0x%X", p.slab.addr)
	must(pt.Insert(p.ptHeap.addr, p.ptHeap.size, rt.DramKernelPtHeap.ID(), 0, 0), "page table heap at 0x%X", p.ptHeap.addr)
}

// insertLinearMapping tags all of DRAM as linearly mapped, picks the
// virtual window and mirrors every DRAM region into it.
func (l *Layout) insertLinearMapping() {
	p, vt, pt := l.plan, l.virtual, l.physical

	var dram []*region.Region
	for r := range pt.All() {
		if r.IsDerivedFrom(rt.Dram.ID()) {
			r.SetTypeAttribute(rt.AttrLinearMapped)
			dram = append(dram, r)
		}
	}

	start := vt.GetRandomAlignedRegionWithGuard(p.linear.size, LinearRegionAlign, rt.None.ID(), LinearRegionAlign)
	l.linearDiff = start - p.linear.addr
	logger.Debug("linear mapping", "phys", hex(p.linear.addr), "virt", hex(start), "size", hex(p.linear.size))

	for _, r := range dram {
		virt := l.LinearVirtualAddress(r.Address())
		must(vt.Insert(virt, r.Size(), rt.ForVirtualLinearMapping(r.Type()), 0, 0),
			"linear view of 0x%X at 0x%X", r.Address(), virt)
		r.SetPairAddress(virt)
		vt.Find(virt).SetPairAddress(r.Address())
	}
}

// insertInitPageTable carves the initial page tables out of linear DRAM and
// hands the rest of DRAM to the pool partition.
func (l *Layout) insertInitPageTable() {
	ip := l.plan.initPt
	must(l.physical.Insert(ip.addr, ip.size, rt.DramKernelInitPt.ID(), 0, 0), "init page table at 0x%X", ip.addr)
	virt := l.LinearVirtualAddress(ip.addr)
	must(l.virtual.Insert(virt, ip.size, rt.VirtualDramKernelInitPt.ID(), 0, 0), "init page table view at 0x%X", virt)

	heap := rt.Dram.ID() | rt.AttrLinearMapped
	for r := range l.physical.All() {
		if r.Type() == heap {
			r.SetType(rt.DramPoolPartition.ID())
		}
	}
}

// insertPools numbers each partition with its own attribute value, starting
// at 1, in both trees.
func (l *Layout) insertPools() {
	p := l.plan
	attr := uint32(1)

	insert := func(c chunk, phys, virt rt.Value, name string) {
		if c.size == 0 {
			return
		}
		must(l.physical.Insert(c.addr, c.size, phys.ID(), attr, 0), "%s pool at 0x%X", name, c.addr)
		v := l.LinearVirtualAddress(c.addr)
		must(l.virtual.Insert(v, c.size, virt.ID(), attr, 0), "%s pool view at 0x%X", name, v)
		logger.Debug("pool", "name", name, "phys", hex(c.addr), "size", hex(c.size), "attr", attr)
		attr++
	}

	for _, c := range p.application {
		insert(c, rt.DramApplicationPool, rt.VirtualDramApplicationPool, "application")
	}
	insert(p.applet, rt.DramAppletPool, rt.VirtualDramAppletPool, "applet")
	insert(p.nonSecure, rt.DramSystemNonSecurePool, rt.VirtualDramSystemNonSecurePool, "system non-secure")
	insert(p.management, rt.DramPoolManagement, rt.VirtualDramPoolManagement, "management")
	insert(p.system, rt.DramSystemPool, rt.VirtualDramSystemPool, "system")
}

// coreStackTypes are the per-core stacks, in placement order.
var coreStackTypes = []rt.Value{
	rt.KernelMiscMainStack,
	rt.KernelMiscIdleStack,
	rt.KernelMiscExceptionStack,
}

func (l *Layout) insertCoreStacks() {
	size := uint64(l.table.StackSize)
	for core := range l.table.Cores {
		for _, typ := range coreStackTypes {
			addr := l.virtual.GetRandomAlignedRegionWithGuard(size, PageSize, rt.KernelMisc.ID(), PageSize)
			must(l.virtual.Insert(addr, size, typ.ID(), uint32(core), 0),
				"core %d %s at 0x%X", core, rt.Name(typ.ID()), addr)
		}
	}
}

// buildLinearTrees copies the linear regions of the main trees into their
// own trees so lookups by the heap helpers stay small.
func (l *Layout) buildLinearTrees() {
	copyInto := func(dst, src *region.Tree, keep func(*region.Region) bool) {
		for r := range src.All() {
			if !keep(r) {
				continue
			}
			dst.InsertDirectly(r.Address(), r.LastAddress(), r.Attributes(), r.Type())
			dst.Find(r.Address()).SetPairAddress(r.PairAddress())
		}
	}

	copyInto(l.physicalLinear, l.physical, func(r *region.Region) bool {
		return r.HasTypeAttribute(rt.AttrLinearMapped)
	})
	copyInto(l.virtualLinear, l.virtual, func(r *region.Region) bool {
		return r.IsDerivedFrom(rt.Dram.ID())
	})
}

type hex uint64

func (h hex) String() string { return fmt.Sprintf("0x%X", uint64(h)) }
