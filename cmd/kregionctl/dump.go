package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/layout"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [tree]",
		Short: "List every region of one or all trees",
		Long: `The dump command boots the layout and prints the regions of the named
tree (virtual, physical, virtual-linear or physical-linear), or of all four.

Example:
  kregionctl dump
  kregionctl dump physical --seed 42
  kregionctl dump virtual-linear --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	l, err := buildLayout()
	if err != nil {
		return err
	}

	names := layout.TreeNames
	if len(args) == 1 {
		if _, err := treeByName(l, args[0]); err != nil {
			return err
		}
		names = args[:1]
	}

	if jsonOut {
		out := make(map[string][]regionJSON, len(names))
		for _, name := range names {
			rows := []regionJSON{}
			for r := range l.Trees()[name].All() {
				rows = append(rows, toJSON(r))
			}
			out[name] = rows
		}
		return printJSON(out)
	}

	for _, name := range names {
		tree := l.Trees()[name]
		printInfo("\n%s (%d regions):\n", name, tree.Len())
		for r := range tree.All() {
			printRegion(r)
		}
	}
	return nil
}
