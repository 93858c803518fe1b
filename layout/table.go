package layout

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/regionkit/internal/align"
	"github.com/joshuapare/regionkit/internal/mmfile"
	"github.com/joshuapare/regionkit/regiontype"
)

// TableVersion is the version written by DefaultTable.
const TableVersion = "1.0.0"

// supportedVersions gates which tables ParseTable accepts.
const supportedVersions = "^1.0"

// Addr is a uint64 that reads and writes as a hex string in YAML.
type Addr uint64

// UnmarshalYAML accepts any Go integer literal (0x..., 0b..., decimal, with
// underscores).
func (a *Addr) UnmarshalYAML(n *yaml.Node) error {
	v, err := strconv.ParseUint(n.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: %q is not an address: %w", n.Line, n.Value, err)
	}
	*a = Addr(v)
	return nil
}

// MarshalYAML writes a as 0x-prefixed hex.
func (a Addr) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%X", uint64(a)), nil
}

// Span is a base address and a size.
type Span struct {
	Base Addr `yaml:"base"`
	Size Addr `yaml:"size"`
}

// Last returns the inclusive last address, or false for an empty or
// wrapping span. A span ending exactly at 2^64 is valid.
func (s Span) Last() (uint64, bool) {
	if s.Size == 0 {
		return 0, false
	}
	last := uint64(s.Base) + uint64(s.Size) - 1
	if last < uint64(s.Base) {
		return 0, false
	}
	return last, true
}

// Code places the kernel image.
type Code struct {
	VirtualBase  Addr `yaml:"virtual_base"`
	PhysicalBase Addr `yaml:"physical_base"`
	Size         Addr `yaml:"size"`
}

// Pools sizes the user memory pools carved out of DRAM.
type Pools struct {
	Application        Addr `yaml:"application"`
	Applet             Addr `yaml:"applet"`
	SystemNonSecureMin Addr `yaml:"system_non_secure_min"`
}

// Device is a memory-mapped board or architecture device.
type Device struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Address Addr   `yaml:"address"`
	Size    Addr   `yaml:"size"`
	// Map asks the bootstrap to map the device into KernelMisc.
	Map bool `yaml:"map,omitempty"`
}

// Table describes a machine for Build.
type Table struct {
	Version string `yaml:"version"`

	Virtual  Span `yaml:"virtual"`
	Physical Span `yaml:"physical"`
	Code     Code `yaml:"code"`
	DRAM     Span `yaml:"dram"`

	ReservedEarlySize Addr `yaml:"reserved_early_size"`
	SlabSize          Addr `yaml:"slab_size"`
	PageTableHeapSize Addr `yaml:"page_table_heap_size"`
	InitPageTableSize Addr `yaml:"init_page_table_size"`

	Pools Pools `yaml:"pools"`

	Cores     int  `yaml:"cores"`
	StackSize Addr `yaml:"stack_size"`

	Devices []Device `yaml:"devices"`
}

// DefaultTable returns a 4 GiB, four-core machine.
func DefaultTable() *Table {
	return &Table{
		Version:  TableVersion,
		Virtual:  Span{Base: 0xFFFFFF8000000000, Size: 1 << 39},
		Physical: Span{Base: 0, Size: 1 << 48},
		Code: Code{
			VirtualBase:  0xFFFFFF8080060000,
			PhysicalBase: 0x80060000,
			Size:         0x80000,
		},
		DRAM:              Span{Base: 0x80000000, Size: 0x100000000},
		ReservedEarlySize: 0x60000,
		SlabSize:          0x400000,
		PageTableHeapSize: 0x800000,
		InitPageTableSize: 0x20000,
		Pools: Pools{
			Application:        0xCD500000,
			Applet:             0x1FB00000,
			SystemNonSecureMin: 0x2C00000,
		},
		Cores:     4,
		StackSize: 0x4000,
		Devices: []Device{
			{Name: "lps-iram", Type: "LegacyLpsIram", Address: 0x40000000, Size: 0x40000},
			{Name: "gicd", Type: "InterruptDistributor", Address: 0x50041000, Size: 0x1000, Map: true},
			{Name: "gicc", Type: "InterruptCpuInterface", Address: 0x50042000, Size: 0x1000, Map: true},
			{Name: "uart", Type: "Uart", Address: 0x70006000, Size: 0x1000, Map: true},
			{Name: "pmc", Type: "PowerManagementController", Address: 0x7000E000, Size: 0x1000},
			{Name: "mc", Type: "MemoryController", Address: 0x70019000, Size: 0x1000, Map: true},
			{Name: "mc1", Type: "MemoryController1", Address: 0x7001C000, Size: 0x1000},
			{Name: "mc0", Type: "MemoryController0", Address: 0x7001D000, Size: 0x1000},
		},
	}
}

// ParseTable decodes and validates a YAML table.
func ParseTable(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTable maps the file at path and parses it.
func LoadTable(path string) (*Table, error) {
	f, err := mmfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("layout: open table: %w", err)
	}
	defer f.Close()

	return ParseTable(f.Bytes())
}

// Marshal encodes t as YAML.
func (t *Table) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks everything Build can check before touching a tree.
func (t *Table) Validate() error {
	if err := checkVersion(t.Version); err != nil {
		return err
	}

	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidTable, fmt.Sprintf(format, args...))
	}

	vLast, ok := t.Virtual.Last()
	if !ok {
		return invalid("virtual space [0x%X, +0x%X) is empty or wraps", t.Virtual.Base, t.Virtual.Size)
	}
	pLast, ok := t.Physical.Last()
	if !ok {
		return invalid("physical space [0x%X, +0x%X) is empty or wraps", t.Physical.Base, t.Physical.Size)
	}

	for _, s := range []struct {
		name string
		v    Addr
	}{
		{"code.virtual_base", t.Code.VirtualBase},
		{"code.physical_base", t.Code.PhysicalBase},
		{"code.size", t.Code.Size},
		{"dram.base", t.DRAM.Base},
		{"dram.size", t.DRAM.Size},
		{"reserved_early_size", t.ReservedEarlySize},
		{"slab_size", t.SlabSize},
		{"page_table_heap_size", t.PageTableHeapSize},
		{"init_page_table_size", t.InitPageTableSize},
		{"pools.application", t.Pools.Application},
		{"pools.applet", t.Pools.Applet},
		{"pools.system_non_secure_min", t.Pools.SystemNonSecureMin},
		{"stack_size", t.StackSize},
	} {
		if !align.IsAligned(uint64(s.v), PageSize) {
			return invalid("%s 0x%X is not page aligned", s.name, s.v)
		}
	}

	for _, s := range []struct {
		name string
		v    Addr
	}{
		{"code.size", t.Code.Size},
		{"slab_size", t.SlabSize},
		{"page_table_heap_size", t.PageTableHeapSize},
		{"init_page_table_size", t.InitPageTableSize},
		{"stack_size", t.StackSize},
	} {
		if s.v == 0 {
			return invalid("%s must be non-zero", s.name)
		}
	}

	dLast, ok := t.DRAM.Last()
	if !ok || uint64(t.DRAM.Base) < uint64(t.Physical.Base) || dLast > pLast {
		return invalid("dram [0x%X, +0x%X) is not inside the physical space", t.DRAM.Base, t.DRAM.Size)
	}

	cv := Span{Base: t.Code.VirtualBase, Size: t.Code.Size}
	cvLast, ok := cv.Last()
	if !ok || uint64(cv.Base) < uint64(t.Virtual.Base) || cvLast > vLast {
		return invalid("kernel code 0x%X is not inside the virtual space", t.Code.VirtualBase)
	}
	kStart, kLast := kernelRegion(uint64(cv.Base), cvLast)
	if kStart < uint64(t.Virtual.Base) || kLast > vLast {
		return invalid("kernel region [0x%X, 0x%X] is not inside the virtual space", kStart, kLast)
	}

	if t.Cores < 1 || t.Cores > MaxCores {
		return invalid("cores %d out of range [1, %d]", t.Cores, MaxCores)
	}

	if _, err := t.plan(); err != nil {
		return invalid("%v", err)
	}

	return t.validateDevices(pLast)
}

func (t *Table) validateDevices(pLast uint64) error {
	seen := make([]Span, 0, len(t.Devices))
	for _, d := range t.Devices {
		if _, err := regiontype.Parse(d.Type); err != nil {
			return fmt.Errorf("%w: device %s: %w", ErrInvalidTable, d.Name, err)
		}
		s := Span{Base: d.Address, Size: d.Size}
		last, ok := s.Last()
		if !ok || !align.IsAligned(uint64(d.Address), PageSize) || !align.IsAligned(uint64(d.Size), PageSize) {
			return fmt.Errorf("%w: device %s [0x%X, +0x%X) is empty, unaligned or wraps",
				ErrInvalidTable, d.Name, d.Address, d.Size)
		}
		if uint64(d.Address) < uint64(t.Physical.Base) || last > pLast {
			return fmt.Errorf("%w: device %s is outside the physical space", ErrInvalidTable, d.Name)
		}
		if spansOverlap(s, t.DRAM) {
			return fmt.Errorf("%w: device %s overlaps dram", ErrInvalidTable, d.Name)
		}
		for _, o := range seen {
			if spansOverlap(s, o) {
				return fmt.Errorf("%w: device %s overlaps device at 0x%X", ErrInvalidTable, d.Name, o.Base)
			}
		}
		seen = append(seen, s)
	}
	return nil
}

func spansOverlap(a, b Span) bool {
	aLast, aok := a.Last()
	bLast, bok := b.Last()
	if !aok || !bok {
		return false
	}
	return uint64(a.Base) <= bLast && uint64(b.Base) <= aLast
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, v, err)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, ver, supportedVersions)
	}
	return nil
}
