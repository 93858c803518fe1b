package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newFindCmd())
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <tree> <address>",
		Short: "Show the region containing an address",
		Long: `The find command looks up the region of a tree that contains the given
address.

Example:
  kregionctl find physical 0x80060000
  kregionctl find virtual 0xFFFFFF8080060000 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(args)
		},
	}
	return cmd
}

func runFind(args []string) error {
	addr, err := parseAddr(args[1])
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

	r := tree.Find(addr)
	if r == nil {
		return fmt.Errorf("no region contains 0x%X in the %s tree", addr, args[0])
	}

	if jsonOut {
		return printJSON(toJSON(r))
	}
	printRegion(r)
	return nil
}
