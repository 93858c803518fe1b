package layout

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/joshuapare/regionkit/internal/align"
)

// Sizes and alignments used by the bootstrap.
const (
	PageSize = 0x1000

	// MaxCores bounds Table.Cores.
	MaxCores = 8

	KernelRegionAlign     = 1 << 30
	KernelAslrAlignment   = 2 << 20
	KernelMiscMinSize     = 32 << 20
	KernelStackRegionSize = 14 << 20
	KernelTempRegionSize  = 128 << 20
	LinearRegionAlign     = 1 << 30
)

// chunk is a half-open physical range [addr, addr+size).
type chunk struct {
	addr, size uint64
}

func (c chunk) end() uint64 { return c.addr + c.size }

// physPlan is the fixed carve-up of DRAM. Only the virtual side is
// randomized, so the physical side can be computed (and rejected) up front.
type physPlan struct {
	dram          chunk
	reservedEarly chunk
	code          chunk
	slab          chunk
	ptHeap        chunk
	initPt        chunk

	partition   chunk
	application []chunk
	applet      chunk
	nonSecure   chunk
	management  chunk
	system      chunk

	linear chunk
}

func (t *Table) plan() (*physPlan, error) {
	base, size := uint64(t.DRAM.Base), uint64(t.DRAM.Size)
	end, c := bits.Add64(base, size, 0)
	if c != 0 || end == 0 {
		return nil, errors.New("dram must end below the top of the address space")
	}

	p := &physPlan{
		dram:          chunk{base, size},
		reservedEarly: chunk{base, uint64(t.ReservedEarlySize)},
	}

	if uint64(t.Code.PhysicalBase) != p.reservedEarly.end() {
		return nil, fmt.Errorf("kernel code must start right after the reserved early region at 0x%X",
			p.reservedEarly.end())
	}

	// Kernel carve-outs are laid back to back after the code.
	cursor := p.reservedEarly.end()
	for _, s := range []struct {
		dst  *chunk
		size uint64
	}{
		{&p.code, uint64(t.Code.Size)},
		{&p.slab, uint64(t.SlabSize)},
		{&p.ptHeap, uint64(t.PageTableHeapSize)},
		{&p.initPt, uint64(t.InitPageTableSize)},
	} {
		*s.dst = chunk{cursor, s.size}
		cursor += s.size
		if cursor < s.dst.addr || cursor >= end {
			return nil, fmt.Errorf("kernel carve-outs overflow dram at 0x%X", s.dst.addr)
		}
	}

	p.partition = chunk{cursor, end - cursor}

	app := uint64(t.Pools.Application)
	applet := uint64(t.Pools.Applet)
	nonSecure := uint64(t.Pools.SystemNonSecureMin)
	mgmt := ManagementOverheadSize(p.partition.size)

	var user uint64
	for _, v := range []uint64{app, applet, nonSecure, mgmt} {
		if user+v < user {
			return nil, errors.New("pool sizes overflow")
		}
		user += v
	}
	if user >= p.partition.size {
		return nil, fmt.Errorf("pools (0x%X with 0x%X management) leave no system pool in 0x%X bytes",
			user-mgmt, mgmt, p.partition.size)
	}

	appStart := end - app
	if app > 0 {
		// The application pool never straddles the middle of DRAM.
		mid := align.Down(base+size/2, PageSize)
		if appStart < mid && mid < end {
			p.application = []chunk{{appStart, mid - appStart}, {mid, end - mid}}
		} else {
			p.application = []chunk{{appStart, app}}
		}
	}
	p.applet = chunk{appStart - applet, applet}
	p.nonSecure = chunk{p.applet.addr - nonSecure, nonSecure}
	p.management = chunk{p.nonSecure.addr - mgmt, mgmt}
	p.system = chunk{p.partition.addr, p.management.addr - p.partition.addr}

	linStart := align.Down(base, LinearRegionAlign)
	linEnd, ok := align.UpChecked(end, LinearRegionAlign)
	if !ok {
		return nil, errors.New("linear region overflows the address space")
	}
	p.linear = chunk{linStart, linEnd - linStart}

	return p, nil
}

// heapBlockShifts are the block sizes tracked by the page heap bitmaps.
var heapBlockShifts = []uint{12, 16, 21, 22, 25, 29, 30}

// ManagementOverheadSize returns the bytes of pool management metadata
// needed to track size bytes of pool memory: a 16-bit reference count per
// page plus one bitmap per heap block size, page aligned.
func ManagementOverheadSize(size uint64) uint64 {
	refCounts := size / PageSize * 2

	var bitmapBits uint64
	for _, s := range heapBlockShifts {
		bitmapBits += align.Up(size>>s, 64)
	}
	return align.Up(refCounts+bitmapBits/8, PageSize)
}

// kernelRegion returns the KernelRegionAlign-aligned container of the code
// range [first, last].
func kernelRegion(first, last uint64) (start, lastAddr uint64) {
	start = align.Down(first, KernelRegionAlign)
	end := align.Up(last+1, KernelRegionAlign) // 0 means the top of the space
	return start, end - 1
}
