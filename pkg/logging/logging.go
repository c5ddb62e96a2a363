// Package logging builds the service logger and the file sink behind it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Sink is an io.Writer over a log file that can be reopened after rotation.
// With an empty path it writes to stderr and Reopen is a no-op.
type Sink struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewSink opens path for appending, creating it with mode 0600
func NewSink(path string) (*Sink, error) {
	s := &Sink{path: path}
	if path == "" {
		return s, nil
	}

	f, err := openLog(path)
	if err != nil {
		return nil, err
	}
	s.file = f
	return s, nil
}

func openLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Write implements io.Writer
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return os.Stderr.Write(p)
	}
	return s.file.Write(p)
}

// Reopen swaps in a fresh handle on the same path. If the open fails the old
// handle is kept.
func (s *Sink) Reopen() error {
	if s.path == "" {
		return nil
	}

	f, err := openLog(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.file
	s.file = f
	s.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

// Path returns the file path, empty for stderr
func (s *Sink) Path() string {
	return s.path
}

// Close closes the underlying file
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.path = ""
	return err
}

// ParseLevel maps debug, info, warn or error to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New returns a JSON logger writing to w
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}))
}

// sensitiveKeys never reach the log
var sensitiveKeys = map[string]bool{
	"data":     true,
	"password": true,
	"hash":     true,
	"salt":     true,
	"key":      true,
}

func redact(groups []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}
