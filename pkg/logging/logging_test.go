package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scryptd.log")

	sink, err := NewSink(path)
	require.NoError(t, err)
	defer sink.Close()

	_, err = sink.Write([]byte("first\n"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Rotate: move the file away, reopen, keep writing
	rotated := filepath.Join(dir, "scryptd.log.1")
	require.NoError(t, os.Rename(path, rotated))
	require.NoError(t, sink.Reopen())

	_, err = sink.Write([]byte("second\n"))
	require.NoError(t, err)

	old, err := os.ReadFile(rotated)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(old))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(current))
}

func TestSink_ReopenFailureKeepsHandle(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	require.NoError(t, os.Mkdir(logDir, 0700))
	path := filepath.Join(logDir, "scryptd.log")

	sink, err := NewSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, os.Rename(logDir, filepath.Join(dir, "moved")))
	assert.Error(t, sink.Reopen())

	_, err = sink.Write([]byte("still writing\n"))
	assert.NoError(t, err)
}

func TestSink_Stderr(t *testing.T) {
	sink, err := NewSink("")
	require.NoError(t, err)
	assert.NoError(t, sink.Reopen())
	assert.NoError(t, sink.Close())
	assert.Empty(t, sink.Path())

	_, err = NewSink(filepath.Join(t.TempDir(), "missing", "scryptd.log"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNew_Redacts(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("hashing", "data", "hunter2", "op", "hash")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hashing", entry["msg"])
	assert.Equal(t, "[REDACTED]", entry["data"])
	assert.Equal(t, "hash", entry["op"])
	assert.NotContains(t, buf.String(), "hunter2")
	assert.NotContains(t, buf.String(), "hidden")
}
