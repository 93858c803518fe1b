// Package regiontype defines the kernel's region type lattice.
//
// A type id is a uint32 in which every derived type keeps all of its
// ancestor's bits. The low bits encode the lattice; the top seven bits carry
// attributes (AttrLinearMapped, AttrNoUserMap, ...) that ride along with the
// type through derivation.
//
// Types are built with Value, a small immutable builder:
//
//	Kernel     = None.DeriveInitial(0, 2)          // 0x1
//	KernelMisc = Kernel.DeriveSparse(1, 4, 2)      // 0x49
//	MainStack  = KernelMisc.Next().Derive(7, 1)    // 0xB49
//
// Sparse derivation gives every sibling its own bit next to a shared marker
// bit. Dense derivation packs n siblings into the fewest bits by giving each
// a distinct pair. Both keep the subset relation, so region.Region's
// IsDerivedFrom works on any id produced here.
//
// Name and Parse convert between ids and their canonical names, e.g.
// "DramKernelCode" or "Dram|LinearMapped".
package regiontype
