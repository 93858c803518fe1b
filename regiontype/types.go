package regiontype

// Attribute bits share the type id word with the lattice and occupy its top
// seven bits.
const (
	AttrCarveoutProtected uint32 = 0x02000000
	AttrUncached          uint32 = 0x04000000
	AttrDidKernelMap      uint32 = 0x08000000
	AttrShouldKernelMap   uint32 = 0x10000000
	AttrUserReadOnly      uint32 = 0x20000000
	AttrNoUserMap         uint32 = 0x40000000
	AttrLinearMapped      uint32 = 0x80000000

	// AttrMask covers every attribute bit.
	AttrMask uint32 = 0xFE000000
)

// Root categories.
var (
	None            = Value{}
	Kernel          = None.DeriveInitial(0, 2)
	Dram            = None.DeriveInitial(1, 2)
	CoreLocalRegion = None.DeriveInitial(2, typeBits).Finalize()
)

// Device regions. Architecture devices are numbered sparsely, board devices
// densely; both hang off the same transition bit and only ever live in the
// physical tree.
var (
	ArchDeviceBase  = Kernel.DeriveTransition(0, 1).SetSparseOnly()
	BoardDeviceBase = Kernel.DeriveTransition(0, 2).SetDenseOnly()

	Uart                  = ArchDeviceBase.DeriveSparse(0, 3, 0)
	InterruptCpuInterface = ArchDeviceBase.DeriveSparse(0, 3, 1).SetAttribute(AttrNoUserMap)
	InterruptDistributor  = ArchDeviceBase.DeriveSparse(0, 3, 2).SetAttribute(AttrNoUserMap)

	MemoryController          = BoardDeviceBase.Derive(6, 0).SetAttribute(AttrNoUserMap)
	MemoryController1         = BoardDeviceBase.Derive(6, 1).SetAttribute(AttrNoUserMap)
	MemoryController0         = BoardDeviceBase.Derive(6, 2).SetAttribute(AttrNoUserMap)
	PowerManagementController = BoardDeviceBase.Derive(6, 3)
	LegacyLpsExceptionVectors = BoardDeviceBase.Derive(6, 4).SetAttribute(AttrNoUserMap)
	LegacyLpsIram             = BoardDeviceBase.Derive(6, 5)
)

// Kernel virtual regions.
var (
	KernelCode  = Kernel.DeriveSparse(1, 4, 0)
	KernelStack = Kernel.DeriveSparse(1, 4, 1)
	KernelMisc  = Kernel.DeriveSparse(1, 4, 2)
	KernelSlab  = Kernel.DeriveSparse(1, 4, 3)

	KernelMiscDerivedBase = KernelMisc.Next()

	KernelMiscMainStack      = KernelMiscDerivedBase.Derive(7, 1)
	KernelMiscMappedDevice   = KernelMiscDerivedBase.Derive(7, 2)
	KernelMiscExceptionStack = KernelMiscDerivedBase.Derive(7, 3)
	KernelMiscUnknownDebug   = KernelMiscDerivedBase.Derive(7, 4)
	KernelMiscIdleStack      = KernelMiscDerivedBase.Derive(7, 6)

	KernelTemp = Kernel.Advance(2).Derive(2, 0)
)

// Physical DRAM regions.
var (
	DramKernelBase   = Dram.DeriveSparse(0, 3, 0).SetAttribute(AttrNoUserMap).SetAttribute(AttrCarveoutProtected)
	DramReservedBase = Dram.DeriveSparse(0, 3, 1)
	DramHeapBase     = Dram.DeriveSparse(0, 3, 2).SetAttribute(AttrLinearMapped)

	DramKernelCode   = DramKernelBase.DeriveSparse(0, 4, 0)
	DramKernelSlab   = DramKernelBase.DeriveSparse(0, 4, 1)
	DramKernelPtHeap = DramKernelBase.DeriveSparse(0, 4, 2).SetAttribute(AttrLinearMapped)
	DramKernelInitPt = DramKernelBase.DeriveSparse(0, 4, 3).SetAttribute(AttrLinearMapped)

	DramReservedEarly = DramReservedBase.DeriveAttribute(AttrNoUserMap)
	KernelTraceBuffer = DramReservedBase.DeriveSparse(0, 3, 0).SetAttribute(AttrLinearMapped).SetAttribute(AttrUserReadOnly)
	OnMemoryBootImage = DramReservedBase.DeriveSparse(0, 3, 1)
	DTB               = DramReservedBase.DeriveSparse(0, 3, 2)

	DramPoolPartition  = DramHeapBase.DeriveAttribute(AttrNoUserMap)
	DramPoolManagement = DramPoolPartition.DeriveTransition(0, 2).Next().SetAttribute(AttrCarveoutProtected)
	DramUserPool       = DramPoolPartition.DeriveTransition(1, 2).Next()

	DramApplicationPool     = DramUserPool.Derive(4, 0)
	DramAppletPool          = DramUserPool.Derive(4, 1)
	DramSystemNonSecurePool = DramUserPool.Derive(4, 2)
	DramSystemPool          = DramUserPool.Derive(4, 3).SetAttribute(AttrCarveoutProtected)
)

// Virtual views of DRAM through the linear mapping.
var (
	VirtualDramHeapBase          = Dram.DeriveSparse(1, 3, 0)
	VirtualDramKernelPtHeap      = Dram.DeriveSparse(1, 3, 1)
	VirtualDramKernelTraceBuffer = Dram.DeriveSparse(1, 3, 2)
	VirtualDramUnknownDebug      = Dram.Advance(2).Derive(4, 0)

	VirtualDramKernelInitPt   = VirtualDramHeapBase.Derive(3, 0)
	VirtualDramPoolManagement = VirtualDramHeapBase.Derive(3, 1)
	VirtualDramUserPool       = VirtualDramHeapBase.Derive(3, 2)

	VirtualDramApplicationPool     = VirtualDramUserPool.Derive(4, 0)
	VirtualDramAppletPool          = VirtualDramUserPool.Derive(4, 1)
	VirtualDramSystemNonSecurePool = VirtualDramUserPool.Derive(4, 2)
	VirtualDramSystemPool          = VirtualDramUserPool.Derive(4, 3)
)

// ForVirtualLinearMapping returns the virtual type for the linear mapping of
// a physical region of type typeID.
func ForVirtualLinearMapping(typeID uint32) uint32 {
	switch {
	case DramKernelPtHeap.IsAncestorOf(typeID):
		return VirtualDramKernelPtHeap.ID()
	case KernelTraceBuffer.IsAncestorOf(typeID):
		return VirtualDramKernelTraceBuffer.ID()
	case typeID|AttrShouldKernelMap == typeID:
		return VirtualDramUnknownDebug.ID()
	default:
		return Dram.ID()
	}
}
