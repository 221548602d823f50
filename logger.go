package ggview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that host
// goroutines (terminal event pollers, timers) can log while SetLogger runs.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggview and all its sub-packages.
// By default, ggview produces no log output.
//
// The logger is also handed to gg, so a single call enables diagnostics for
// the drawing surface as well. Pass nil to restore the silent default.
//
// Log levels used by ggview:
//   - [slog.LevelDebug]: per-event diagnostics (ignored buttons, dropped ticks)
//   - [slog.LevelWarn]: recoverable misuse (stopping an idle loop, unbalanced scopes)
//   - [slog.LevelError]: missing plugin collaborators, invalid geometry
//
// Example:
//
//	ggview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	gg.SetLogger(l)
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by ggview.
// Sub-packages (plugin/, loop/, size/, integration/) call this to share the
// same configuration without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
