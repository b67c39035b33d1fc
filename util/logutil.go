package util

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ParseLogLevel maps the CLI/env log-level names divvy accepts to a
// slog.Level, defaulting to info for anything unrecognized.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog.Logger writing text records to stderr at level,
// wrapping stderr in a color-capable writer when it's an interactive
// terminal. A constructor callers invoke with an explicit level and get
// a logger back, rather than one that mutates global state.
func NewLogger(level slog.Level) *slog.Logger {
	w := os.Stderr
	var out io.Writer = w
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		out = colorable.NewColorable(w)
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
