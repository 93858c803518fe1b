// Package verify validates region trees and booted kernel layouts.
//
// # Overview
//
// Each check returns nil or a *ValidationError naming the violated
// invariant and the address where it was found:
//
//   - NonOverlap: regions are sorted and disjoint
//   - Coverage: regions tile a range with no gaps
//   - Contiguous: regions tile the span from the first to the last region
//   - PairAddresses: linked regions point at each other and match in size
//   - Mirrors: a linear tree's regions are copies of the main tree's
//
// # Quick Start
//
//	l, _ := layout.Build(nil, layout.WithSeed(1))
//	if err := verify.Layout(l); err != nil {
//	    fmt.Printf("layout broken: %v\n", err)
//	}
package verify
