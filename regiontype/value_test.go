package regiontype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalValues(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		parent Value
		want   uint32
	}{
		{"Kernel", Kernel, None, 0x1},
		{"Dram", Dram, None, 0x2},
		{"CoreLocalRegion", CoreLocalRegion, None, 0x4},
		{"ArchDeviceBase", ArchDeviceBase, Kernel, 0x5},
		{"BoardDeviceBase", BoardDeviceBase, Kernel, 0x5},
		{"Uart", Uart, ArchDeviceBase, 0x1D},
		{"MemoryController", MemoryController, BoardDeviceBase, 0x35 | AttrNoUserMap},
		{"KernelCode", KernelCode, Kernel, 0x19},
		{"KernelStack", KernelStack, Kernel, 0x29},
		{"KernelMisc", KernelMisc, Kernel, 0x49},
		{"KernelSlab", KernelSlab, Kernel, 0x89},
		{"KernelMiscDerivedBase", KernelMiscDerivedBase, KernelMisc, 0x149},
		{"KernelMiscMainStack", KernelMiscMainStack, KernelMiscDerivedBase, 0xB49},
		{"KernelMiscMappedDevice", KernelMiscMappedDevice, KernelMiscDerivedBase, 0xD49},
		{"KernelMiscExceptionStack", KernelMiscExceptionStack, KernelMiscDerivedBase, 0x1349},
		{"KernelMiscUnknownDebug", KernelMiscUnknownDebug, KernelMiscDerivedBase, 0x1549},
		{"KernelMiscIdleStack", KernelMiscIdleStack, KernelMiscDerivedBase, 0x2349},
		{"KernelTemp", KernelTemp, Kernel, 0x31},
		{"DramKernelBase", DramKernelBase, Dram, 0xE | AttrNoUserMap | AttrCarveoutProtected},
		{"DramReservedBase", DramReservedBase, Dram, 0x16},
		{"DramHeapBase", DramHeapBase, Dram, 0x26 | AttrLinearMapped},
		{"DramKernelCode", DramKernelCode, DramKernelBase, 0xCE | AttrNoUserMap | AttrCarveoutProtected},
		{"DramKernelSlab", DramKernelSlab, DramKernelBase, 0x14E | AttrNoUserMap | AttrCarveoutProtected},
		{"DramKernelPtHeap", DramKernelPtHeap, DramKernelBase, 0x24E | AttrNoUserMap | AttrCarveoutProtected | AttrLinearMapped},
		{"DramKernelInitPt", DramKernelInitPt, DramKernelBase, 0x44E | AttrNoUserMap | AttrCarveoutProtected | AttrLinearMapped},
		{"DramReservedEarly", DramReservedEarly, DramReservedBase, 0x16 | AttrNoUserMap},
		{"KernelTraceBuffer", KernelTraceBuffer, DramReservedBase, 0xD6 | AttrLinearMapped | AttrUserReadOnly},
		{"DramPoolPartition", DramPoolPartition, DramHeapBase, 0x26 | AttrLinearMapped | AttrNoUserMap},
		{"DramPoolManagement", DramPoolManagement, DramPoolPartition, 0x166 | AttrLinearMapped | AttrNoUserMap | AttrCarveoutProtected},
		{"DramUserPool", DramUserPool, DramPoolPartition, 0x1A6 | AttrLinearMapped | AttrNoUserMap},
		{"DramApplicationPool", DramApplicationPool, DramUserPool, 0x7A6 | AttrLinearMapped | AttrNoUserMap},
		{"DramAppletPool", DramAppletPool, DramUserPool, 0xBA6 | AttrLinearMapped | AttrNoUserMap},
		{"DramSystemNonSecurePool", DramSystemNonSecurePool, DramUserPool, 0xDA6 | AttrLinearMapped | AttrNoUserMap},
		{"DramSystemPool", DramSystemPool, DramUserPool, 0x13A6 | AttrLinearMapped | AttrNoUserMap | AttrCarveoutProtected},
		{"VirtualDramHeapBase", VirtualDramHeapBase, Dram, 0x1A},
		{"VirtualDramKernelPtHeap", VirtualDramKernelPtHeap, Dram, 0x2A},
		{"VirtualDramKernelTraceBuffer", VirtualDramKernelTraceBuffer, Dram, 0x4A},
		{"VirtualDramUnknownDebug", VirtualDramUnknownDebug, Dram, 0x32},
		{"VirtualDramKernelInitPt", VirtualDramKernelInitPt, VirtualDramHeapBase, 0x19A},
		{"VirtualDramPoolManagement", VirtualDramPoolManagement, VirtualDramHeapBase, 0x29A},
		{"VirtualDramUserPool", VirtualDramUserPool, VirtualDramHeapBase, 0x31A},
		{"VirtualDramApplicationPool", VirtualDramApplicationPool, VirtualDramUserPool, 0xF1A},
		{"VirtualDramAppletPool", VirtualDramAppletPool, VirtualDramUserPool, 0x171A},
		{"VirtualDramSystemNonSecurePool", VirtualDramSystemNonSecurePool, VirtualDramUserPool, 0x1B1A},
		{"VirtualDramSystemPool", VirtualDramSystemPool, VirtualDramUserPool, 0x271A},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.ID(), "got 0x%X", tt.v.ID())
			assert.Equal(t, tt.parent.ID(), tt.want&tt.parent.ID(),
				"0x%X must keep every bit of its parent 0x%X", tt.want, tt.parent.ID())
			assert.True(t, tt.v.IsDerivedFrom(tt.parent.ID()))
		})
	}
}

func TestDerivationRelations(t *testing.T) {
	chains := [][]Value{
		{Kernel, KernelMisc, KernelMiscDerivedBase, KernelMiscMainStack},
		{Kernel, KernelMisc, KernelMiscDerivedBase, KernelMiscIdleStack},
		{Dram, DramHeapBase, DramPoolPartition, DramUserPool, DramApplicationPool},
		{Dram, DramHeapBase, DramPoolPartition, DramPoolManagement},
		{Dram, DramKernelBase, DramKernelPtHeap},
		{Dram, DramReservedBase, KernelTraceBuffer},
		{Dram, VirtualDramHeapBase, VirtualDramUserPool, VirtualDramSystemPool},
	}

	for _, chain := range chains {
		for i := 1; i < len(chain); i++ {
			parent, child := chain[i-1], chain[i]
			assert.True(t, child.IsDerivedFrom(parent.ID()), "0x%X from 0x%X", child.ID(), parent.ID())
			assert.True(t, parent.IsAncestorOf(child.ID()))
			assert.False(t, parent.IsDerivedFrom(child.ID()))
		}
	}

	// Siblings never derive from each other.
	siblings := []Value{KernelCode, KernelStack, KernelMisc, KernelSlab, KernelTemp}
	for i, a := range siblings {
		for j, b := range siblings {
			if i != j {
				assert.False(t, a.IsDerivedFrom(b.ID()), "0x%X vs 0x%X", a.ID(), b.ID())
			}
		}
	}

	assert.False(t, DramApplicationPool.IsDerivedFrom(Kernel.ID()))
	assert.False(t, VirtualDramApplicationPool.IsDerivedFrom(DramHeapBase.ID()))
}

func TestDensePairs(t *testing.T) {
	want := [][2]int{{0, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 3}, {2, 3}, {0, 4}}
	for i, p := range want {
		low, high := densePair(i)
		assert.Equal(t, p, [2]int{low, high}, "pair %d", i)
	}

	assert.Equal(t, 2, BitsForDeriveDense(1))
	assert.Equal(t, 3, BitsForDeriveDense(2))
	assert.Equal(t, 3, BitsForDeriveDense(3))
	assert.Equal(t, 4, BitsForDeriveDense(6))
	assert.Equal(t, 5, BitsForDeriveDense(7))
	assert.Equal(t, 4, BitsForDeriveSparse(3))
}

func TestBuilderMisusePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"derive from finalized", func() { CoreLocalRegion.Next() }},
		{"dense from sparse-only", func() { ArchDeviceBase.Derive(2, 0) }},
		{"transition from sparse-only", func() { ArchDeviceBase.Next() }},
		{"sparse from dense-only", func() { BoardDeviceBase.DeriveSparse(0, 2, 0) }},
		{"child index out of range", func() { Kernel.DeriveSparse(0, 2, 2) }},
		{"initial from non-root", func() { Kernel.DeriveInitial(3, 4) }},
		{"bits exhausted", func() { Kernel.Advance(30).Derive(4, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Panics(t, tt.fn)
		})
	}
}

func TestForVirtualLinearMapping(t *testing.T) {
	assert.Equal(t, VirtualDramKernelPtHeap.ID(), ForVirtualLinearMapping(DramKernelPtHeap.ID()))
	assert.Equal(t, VirtualDramKernelTraceBuffer.ID(), ForVirtualLinearMapping(KernelTraceBuffer.ID()))
	assert.Equal(t, VirtualDramUnknownDebug.ID(), ForVirtualLinearMapping(DramReservedBase.ID()|AttrShouldKernelMap))
	assert.Equal(t, Dram.ID(), ForVirtualLinearMapping(DramApplicationPool.ID()))
	assert.Equal(t, Dram.ID(), ForVirtualLinearMapping(DramKernelCode.ID()))
}
