package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	prev := L
	t.Cleanup(func() { L = prev })
}

func TestInitDisabledDiscards(t *testing.T) {
	restore(t)
	require.NoError(t, Init(Options{}))
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, Enabled(level), "level %s", level)
	}
}

func TestDefaultLoggerDisabled(t *testing.T) {
	assert.False(t, discard().Enabled(context.Background(), slog.LevelError))
}

func TestInitWriterText(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug}))

	Debug("split", "addr", 0x1000)
	assert.Contains(t, buf.String(), "msg=split")
	assert.Contains(t, buf.String(), "addr=4096")
}

func TestInitWriterJSONLevel(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelWarn, JSON: true}))

	Info("dropped")
	Warn("kept", "n", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
}

func TestInitLogDirCreatesDailyFile(t *testing.T) {
	restore(t)
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	Error("boom")

	name := logPrefix + time.Now().Format(time.DateOnly) + logSuffix
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	files := map[string]bool{
		logPrefix + "2026-01-01" + logSuffix: false,
		logPrefix + "2026-03-15" + logSuffix: true,
		logPrefix + "garbage" + logSuffix:    true,
		"other-2020-01-01.log":               true,
	}
	for name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	pruneLogs(dir, now)

	for name, keep := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if keep {
			assert.NoError(t, err, name)
		} else {
			assert.True(t, os.IsNotExist(err), name)
		}
	}
}
