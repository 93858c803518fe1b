package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouches(t *testing.T) {
	path := filepath.Join(string(filepath.Separator)+"tmp", "board.yaml")

	assert.True(t, touches(fsnotify.Event{Name: path, Op: fsnotify.Write}, path))
	assert.True(t, touches(fsnotify.Event{Name: path, Op: fsnotify.Create}, path))
	assert.True(t, touches(fsnotify.Event{Name: path, Op: fsnotify.Rename}, path))
	assert.False(t, touches(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, path))
	assert.False(t, touches(fsnotify.Event{Name: path + ".swp", Op: fsnotify.Write}, path))
}

func TestWatchNeedsLayout(t *testing.T) {
	resetFlags(t)
	err := runWatch(context.Background(), func(validationResult) {})
	require.ErrorContains(t, err, "--layout")
}

func TestWatchRevalidatesOnWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem watch test in short mode")
	}
	resetFlags(t)
	useSeed(t, 1)
	layoutPath = writeTable(t, func(s string) string { return s })

	results := make(chan validationResult, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, func(r validationResult) {
			select {
			case results <- r:
			default:
			}
		})
	}()

	wait := func() validationResult {
		select {
		case r := <-results:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for validation")
			return validationResult{}
		}
	}

	require.True(t, wait().Valid, "initial validation")

	data, err := os.ReadFile(layoutPath)
	require.NoError(t, err)
	broken := strings.Replace(string(data), "version: 1.0.0", "version: 2.0.0", 1)
	require.NoError(t, os.WriteFile(layoutPath, []byte(broken), 0o644))

	// A single save may produce several events; wait for the invalid result.
	for {
		if r := wait(); !r.Valid {
			assert.Equal(t, "table", r.Stage)
			break
		}
	}

	cancel()
	require.NoError(t, <-done)
}
