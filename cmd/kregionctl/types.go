package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/regiontype"
)

func init() {
	rootCmd.AddCommand(newTypesCmd())
}

func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the canonical region types",
		Long: `The types command prints every canonical region type with its id.

Example:
  kregionctl types
  kregionctl types --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes()
		},
	}
	return cmd
}

func runTypes() error {
	names := regiontype.Names()

	if jsonOut {
		out := make([]map[string]string, 0, len(names))
		for _, n := range names {
			v, _ := regiontype.Lookup(n)
			out = append(out, map[string]string{"name": n, "id": fmt.Sprintf("0x%08X", v.ID())})
		}
		return printJSON(out)
	}

	for _, n := range names {
		v, _ := regiontype.Lookup(n)
		printInfo("  0x%08X  %s\n", v.ID(), n)
	}
	return nil
}
