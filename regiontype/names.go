package regiontype

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ErrUnknownType indicates a type or attribute name that Parse does not know.
var ErrUnknownType = errors.New("regiontype: unknown type")

type named struct {
	name  string
	value Value
}

// registry lists the canonical types in lattice order.
var registry = []named{
	{"None", None},
	{"Kernel", Kernel},
	{"Dram", Dram},
	{"CoreLocalRegion", CoreLocalRegion},
	{"ArchDeviceBase", ArchDeviceBase},
	{"Uart", Uart},
	{"InterruptCpuInterface", InterruptCpuInterface},
	{"InterruptDistributor", InterruptDistributor},
	{"MemoryController", MemoryController},
	{"MemoryController1", MemoryController1},
	{"MemoryController0", MemoryController0},
	{"PowerManagementController", PowerManagementController},
	{"LegacyLpsExceptionVectors", LegacyLpsExceptionVectors},
	{"LegacyLpsIram", LegacyLpsIram},
	{"KernelCode", KernelCode},
	{"KernelStack", KernelStack},
	{"KernelMisc", KernelMisc},
	{"KernelSlab", KernelSlab},
	{"KernelMiscDerivedBase", KernelMiscDerivedBase},
	{"KernelMiscMainStack", KernelMiscMainStack},
	{"KernelMiscMappedDevice", KernelMiscMappedDevice},
	{"KernelMiscExceptionStack", KernelMiscExceptionStack},
	{"KernelMiscUnknownDebug", KernelMiscUnknownDebug},
	{"KernelMiscIdleStack", KernelMiscIdleStack},
	{"KernelTemp", KernelTemp},
	{"DramKernelBase", DramKernelBase},
	{"DramReservedBase", DramReservedBase},
	{"DramHeapBase", DramHeapBase},
	{"DramKernelCode", DramKernelCode},
	{"DramKernelSlab", DramKernelSlab},
	{"DramKernelPtHeap", DramKernelPtHeap},
	{"DramKernelInitPt", DramKernelInitPt},
	{"DramReservedEarly", DramReservedEarly},
	{"KernelTraceBuffer", KernelTraceBuffer},
	{"OnMemoryBootImage", OnMemoryBootImage},
	{"DTB", DTB},
	{"DramPoolPartition", DramPoolPartition},
	{"DramPoolManagement", DramPoolManagement},
	{"DramUserPool", DramUserPool},
	{"DramApplicationPool", DramApplicationPool},
	{"DramAppletPool", DramAppletPool},
	{"DramSystemNonSecurePool", DramSystemNonSecurePool},
	{"DramSystemPool", DramSystemPool},
	{"VirtualDramHeapBase", VirtualDramHeapBase},
	{"VirtualDramKernelPtHeap", VirtualDramKernelPtHeap},
	{"VirtualDramKernelTraceBuffer", VirtualDramKernelTraceBuffer},
	{"VirtualDramUnknownDebug", VirtualDramUnknownDebug},
	{"VirtualDramKernelInitPt", VirtualDramKernelInitPt},
	{"VirtualDramPoolManagement", VirtualDramPoolManagement},
	{"VirtualDramUserPool", VirtualDramUserPool},
	{"VirtualDramApplicationPool", VirtualDramApplicationPool},
	{"VirtualDramAppletPool", VirtualDramAppletPool},
	{"VirtualDramSystemNonSecurePool", VirtualDramSystemNonSecurePool},
	{"VirtualDramSystemPool", VirtualDramSystemPool},
}

var attrNames = []struct {
	name string
	bit  uint32
}{
	{"CarveoutProtected", AttrCarveoutProtected},
	{"Uncached", AttrUncached},
	{"DidKernelMap", AttrDidKernelMap},
	{"ShouldKernelMap", AttrShouldKernelMap},
	{"UserReadOnly", AttrUserReadOnly},
	{"NoUserMap", AttrNoUserMap},
	{"LinearMapped", AttrLinearMapped},
}

// Lookup returns the canonical type with the given name.
func Lookup(name string) (Value, bool) {
	for _, n := range registry {
		if strings.EqualFold(n.name, name) {
			return n.value, true
		}
	}
	return Value{}, false
}

// Names returns every canonical type name in lattice order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, n := range registry {
		out = append(out, n.name)
	}
	return out
}

// Name renders a type id as the most specific canonical type it is derived
// from, followed by any extra attribute bits, e.g. "Dram|LinearMapped".
// Ids that carry non-attribute bits outside every canonical type render as
// hex.
func Name(id uint32) string {
	best := -1
	bestScore := -1
	for i, n := range registry {
		v := n.value.ID()
		if id|v != id {
			continue
		}
		// Whatever the candidate does not explain must be attribute bits.
		if (id&^v)&^AttrMask != 0 {
			continue
		}
		score := bits.OnesCount32(v&^AttrMask)<<8 | bits.OnesCount32(v&AttrMask)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return fmt.Sprintf("0x%08X", id)
	}

	parts := []string{registry[best].name}
	extra := id &^ registry[best].value.ID()
	for _, a := range attrNames {
		if extra&a.bit != 0 {
			parts = append(parts, a.name)
		}
	}
	return strings.Join(parts, "|")
}

// Parse accepts a canonical name optionally followed by "|Attr" suffixes, or
// a hex/decimal literal.
func Parse(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnknownType)
	}
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		return uint32(n), nil
	}

	var id uint32
	for i, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if attr, ok := lookupAttr(part); ok && i > 0 {
			id |= attr
			continue
		}
		v, ok := Lookup(part)
		if !ok || i > 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnknownType, part)
		}
		id |= v.ID()
	}
	return id, nil
}

func lookupAttr(name string) (uint32, bool) {
	for _, a := range attrNames {
		if strings.EqualFold(a.name, name) {
			return a.bit, true
		}
	}
	return 0, false
}
