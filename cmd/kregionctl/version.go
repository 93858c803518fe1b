package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/layout"
	"github.com/joshuapare/regionkit/region"
)

// Set by the release build through -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version      string `json:"version"`
	Commit       string `json:"commit"`
	Built        string `json:"built"`
	Go           string `json:"go"`
	TableVersion string `json:"table_version"`
	MaxRegions   int    `json:"max_regions"`
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	})
}

func runVersion() error {
	info := versionInfo{
		Version:      version,
		Commit:       commit,
		Built:        date,
		Go:           runtime.Version(),
		TableVersion: layout.TableVersion,
		MaxRegions:   region.MaxRegions,
	}
	if jsonOut {
		return printJSON(info)
	}
	printInfo("kregionctl %s\n", info.Version)
	printInfo("  commit: %s\n", info.Commit)
	printInfo("  built: %s (%s)\n", info.Built, info.Go)
	printInfo("  layout table: %s, max regions: %d\n", info.TableVersion, info.MaxRegions)
	return nil
}
