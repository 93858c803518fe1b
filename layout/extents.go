package layout

import (
	"github.com/joshuapare/regionkit/region"
	rt "github.com/joshuapare/regionkit/regiontype"
)

// Virtual kernel regions.

// KernelCodeExtents spans the kernel image in the virtual tree.
func (l *Layout) KernelCodeExtents() region.DerivedRegionExtents {
	return l.virtual.GetDerivedRegionExtents(rt.KernelCode.ID())
}

// KernelStackExtents spans the kernel stack region.
func (l *Layout) KernelStackExtents() region.DerivedRegionExtents {
	return l.virtual.GetDerivedRegionExtents(rt.KernelStack.ID())
}

// KernelMiscExtents spans the misc region holding per-core stacks and mapped devices.
func (l *Layout) KernelMiscExtents() region.DerivedRegionExtents {
	return l.virtual.GetDerivedRegionExtents(rt.KernelMisc.ID())
}

// KernelSlabExtents spans the virtual slab heap.
func (l *Layout) KernelSlabExtents() region.DerivedRegionExtents {
	return l.virtual.GetDerivedRegionExtents(rt.KernelSlab.ID())
}

// TempExtents spans the temporary mapping region.
func (l *Layout) TempExtents() region.DerivedRegionExtents {
	return l.virtual.GetDerivedRegionExtents(rt.KernelTemp.ID())
}

// Linear mapping.

// LinearPhysicalExtents spans all physical memory reachable through the linear mapping.
func (l *Layout) LinearPhysicalExtents() region.DerivedRegionExtents {
	return l.physicalLinear.GetDerivedRegionExtents(rt.AttrLinearMapped)
}

// LinearVirtualExtents spans the used part of the linear window.
func (l *Layout) LinearVirtualExtents() region.DerivedRegionExtents {
	return l.virtualLinear.GetDerivedRegionExtents(rt.Dram.ID())
}

// Physical regions.

// MainMemoryPhysicalExtents spans DRAM.
func (l *Layout) MainMemoryPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.Dram.ID())
}

// CarveoutExtents spans every region the memory controller protects.
func (l *Layout) CarveoutExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.AttrCarveoutProtected)
}

// KernelPhysicalExtents spans the kernel's DRAM carve-outs.
func (l *Layout) KernelPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramKernelBase.ID())
}

// KernelCodePhysicalExtents spans the physical kernel image.
func (l *Layout) KernelCodePhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramKernelCode.ID())
}

// KernelSlabPhysicalExtents spans the physical slab heap.
func (l *Layout) KernelSlabPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramKernelSlab.ID())
}

// PageTableHeapPhysicalExtents spans the page table heap.
func (l *Layout) PageTableHeapPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramKernelPtHeap.ID())
}

// InitPageTablePhysicalExtents spans the initial page tables.
func (l *Layout) InitPageTablePhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramKernelInitPt.ID())
}

// PoolManagementPhysicalExtents spans the pool management area.
func (l *Layout) PoolManagementPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramPoolManagement.ID())
}

// PoolPartitionPhysicalExtents spans every pool partition, management included.
func (l *Layout) PoolPartitionPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramPoolPartition.ID())
}

// SystemPoolPhysicalExtents spans the system pool.
func (l *Layout) SystemPoolPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramSystemPool.ID())
}

// SystemNonSecurePoolPhysicalExtents spans the non-secure system pool.
func (l *Layout) SystemNonSecurePoolPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramSystemNonSecurePool.ID())
}

// AppletPoolPhysicalExtents spans the applet pool.
func (l *Layout) AppletPoolPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramAppletPool.ID())
}

// ApplicationPoolPhysicalExtents spans the application pool, both halves when split.
func (l *Layout) ApplicationPoolPhysicalExtents() region.DerivedRegionExtents {
	return l.physical.GetDerivedRegionExtents(rt.DramApplicationPool.ID())
}
