// Package logging builds the slog logger used across gitweb and holds the
// canonical attribute helpers so field names stay consistent.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Canonical log field names.
const (
	KeyRepo       = "repository"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyCommand    = "command"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Options configures New.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Writer io.Writer
}

// New creates a logger writing to opts.Writer (stderr when nil).
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if NormalizeFormat(opts.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

// OpenFile opens (appending) a log file, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NormalizeFormat returns "json" or "text".
func NormalizeFormat(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "json") {
		return "json"
	}
	return "text"
}

func Repository(r string) slog.Attr  { return slog.String(KeyRepo, r) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr         { return slog.String(KeyURL, u) }
func Command(c string) slog.Attr     { return slog.String(KeyCommand, c) }
func DurationMS(ms int64) slog.Attr  { return slog.Int64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
