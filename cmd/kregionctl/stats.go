package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/layout"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the booted layout",
		Long: `The stats command reports region counts per tree, arena usage, memory
sizes and the linear mapping.

Example:
  kregionctl stats
  kregionctl stats --layout board.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
	return cmd
}

func runStats() error {
	l, err := buildLayout()
	if err != nil {
		return err
	}

	used, capacity := l.AllocatorUsage()
	total, kernel := l.TotalAndKernelMemorySizes()
	dram := l.MainMemoryPhysicalExtents()
	linearVirt := l.LinearVirtualAddress(dram.Address())

	counts := make(map[string]int, len(layout.TreeNames))
	for _, name := range layout.TreeNames {
		counts[name] = l.Trees()[name].Len()
	}

	if jsonOut {
		return printJSON(map[string]any{
			"regions":        counts,
			"arena_used":     used,
			"arena_capacity": capacity,
			"total_memory":   total,
			"kernel_memory":  kernel,
			"linear_phys":    fmt.Sprintf("0x%X", dram.Address()),
			"linear_virt":    fmt.Sprintf("0x%X", linearVirt),
		})
	}

	printInfo("\nLayout Statistics:\n")
	for _, name := range layout.TreeNames {
		printInfo("  %-16s %d regions\n", name+":", counts[name])
	}
	printInfo("  Arena:           %d / %d slots\n", used, capacity)
	printInfo("  Total memory:    %s\n", formatSize(total))
	printInfo("  Kernel memory:   %s\n", formatSize(kernel))
	printInfo("  Linear mapping:  0x%X -> 0x%X\n", dram.Address(), linearVirt)
	return nil
}
