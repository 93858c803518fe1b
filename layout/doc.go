// Package layout boots a guest kernel's memory layout on top of package
// region.
//
// # Overview
//
// Build takes a Table describing the machine (virtual and physical address
// spaces, kernel image, DRAM, pool sizes, devices) and produces a Layout:
//
//   - a virtual tree rooted at the kernel address space
//   - a physical tree rooted at the physical address space
//   - virtual-linear and physical-linear trees holding only the linearly
//     mapped DRAM regions
//
// All four trees draw from one region.Allocator.
//
// # Bootstrap
//
// The physical carve-up of DRAM is fixed by the table: reserved early
// memory, kernel code, slab, page table heap and initial page tables, then
// the pool partition (system, management, non-secure system, applet and
// application pools, the last split at the middle of DRAM). The virtual side
// is randomized: the misc, stack, slab and temp regions land at random
// KernelAslrAlignment-aligned addresses inside the 1 GiB kernel region,
// mapped devices and per-core stacks at random guarded pages inside misc,
// and the linear window at a random 1 GiB-aligned address.
//
// # Tables
//
// Tables are YAML. Addresses are strings so they can be written in hex:
//
//	version: 1.0.0
//	dram:
//	  base: "0x80000000"
//	  size: "0x100000000"
//
// The version is checked against a semver constraint; LoadTable memory maps
// the file.
//
// # Reproducibility
//
// Build(nil, WithSeed(42)) always yields the same layout. Without a seed the
// layout is keyed from crypto/rand.
package layout
