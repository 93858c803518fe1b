package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/internal/logger"
)

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Revalidate a layout table every time it changes",
		Long: `The watch command validates the --layout file once, then again after
every write, until interrupted. Editors that replace the file on save are
handled by watching its directory.

Example:
  kregionctl watch --layout board.yaml
  kregionctl watch --layout board.yaml --seed 1 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, reportWatch)
		},
	}
	return cmd
}

func reportWatch(res validationResult) {
	if jsonOut {
		if err := printJSON(res); err != nil {
			printError("%v\n", err)
		}
		return
	}
	reportValidation(res)
}

// runWatch validates the layout file on start and after every change,
// handing each result to report, until ctx is done.
func runWatch(ctx context.Context, report func(validationResult)) error {
	if layoutPath == "" {
		return errors.New("watch needs --layout")
	}
	path, err := filepath.Abs(layoutPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	report(validateCurrent())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !touches(ev, path) {
				continue
			}
			logger.Debug("layout changed", "path", ev.Name, "op", ev.Op.String())
			report(validateCurrent())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// touches reports whether ev may have changed the contents of path.
func touches(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
