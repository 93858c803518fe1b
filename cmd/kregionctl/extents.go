package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/regiontype"
)

func init() {
	rootCmd.AddCommand(newExtentsCmd())
}

func newExtentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extents <tree> <type>",
		Short: "Show the span of all regions derived from a type",
		Long: `The extents command prints the first and last region derived from a
type, and the span between them. The type is a canonical name, optionally
with attributes ("Dram|LinearMapped"), or a number.

Example:
  kregionctl extents physical DramApplicationPool
  kregionctl extents virtual KernelMisc --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtents(args)
		},
	}
	return cmd
}

func runExtents(args []string) error {
	typeID, err := regiontype.Parse(args[1])
	if err != nil {
		return err
	}
	l, err := buildLayout()
	if err != nil {
		return err
	}
	tree, err := treeByName(l, args[0])
	if err != nil {
		return err
	}

	if tree.FindFirstDerived(typeID) == nil {
		return fmt.Errorf("no region in the %s tree derives from %s", args[0], regiontype.Name(typeID))
	}
	e := tree.GetDerivedRegionExtents(typeID)

	if jsonOut {
		return printJSON(map[string]any{
			"type":  regiontype.Name(typeID),
			"first": toJSON(e.First),
			"last":  toJSON(e.Last),
			"start": fmt.Sprintf("0x%X", e.Address()),
			"end":   fmt.Sprintf("0x%X", e.EndAddress()),
			"size":  e.Size(),
		})
	}

	printInfo("%s in %s: 0x%016X-0x%016X (%s)\n",
		regiontype.Name(typeID), args[0], e.Address(), e.LastAddress(), formatSize(e.Size()))
	printVerbose("  first: %s\n  last:  %s\n", e.First, e.Last)
	return nil
}
