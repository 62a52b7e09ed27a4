package gesture

import (
	"context"
	"log/slog"
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

// resolveLogger returns l, or a silent logger when l is nil. The returned
// logger is tagged with the component name so several engines sharing one
// handler remain distinguishable.
func resolveLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return newNopLogger()
	}
	return l.With(slog.String("component", "gesture"))
}
