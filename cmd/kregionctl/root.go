package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/internal/logger"
	"github.com/joshuapare/regionkit/layout"
)

var (
	// Global flags
	layoutPath string
	seed       uint64
	jsonOut    bool
	verbose    bool
	quiet      bool
	logDir     string
)

var rootCmd = &cobra.Command{
	Use:   "kregionctl",
	Short: "Inspect a guest kernel's memory region layout",
	Long: `kregionctl boots a kernel memory layout from a layout table (or the
built-in default board) and lets you inspect its region trees, randomized
placements and invariants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&layoutPath, "layout", "l", "", "Layout table (YAML); default board when empty")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible layout")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs on stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write daily JSON logs to this directory")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func initLogging() error {
	switch {
	case logDir != "":
		return logger.Init(logger.Options{Enabled: true, LogDir: logDir, Level: slog.LevelDebug, JSON: true})
	case verbose && !quiet:
		return logger.Init(logger.Options{Enabled: true, Writer: os.Stderr, Level: slog.LevelDebug})
	default:
		return logger.Init(logger.Options{})
	}
}

// loadTable returns the table named by --layout, or the default board.
func loadTable() (*layout.Table, error) {
	if layoutPath == "" {
		return layout.DefaultTable(), nil
	}
	printVerbose("Loading layout table: %s\n", layoutPath)
	return layout.LoadTable(layoutPath)
}

// buildLayout boots the layout selected by the global flags.
func buildLayout() (*layout.Layout, error) {
	tbl, err := loadTable()
	if err != nil {
		return nil, err
	}

	var opts *layout.Options
	if rootCmd.PersistentFlags().Changed("seed") {
		opts = layout.WithSeed(seed)
		printVerbose("Using seed %d\n", seed)
	}
	return layout.Build(tbl, opts)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
