// Package sklog centralizes the structured logger used across the sketch
// kernel. Components log one line at the start and one at the end of each
// public mutation, solve, or detection pass — entity/constraint counts in,
// result counts out.
package sklog

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

// Set installs l as the package-wide logger. Callers embedding the kernel
// in an application typically call this once at startup with their own
// handler (JSON, level, sinks).
func Set(l *slog.Logger) {
	if l == nil {
		return
	}
	current.Store(l)
}

// Get returns the current logger.
func Get() *slog.Logger {
	return current.Load()
}

// For returns a logger scoped to a component name, e.g. sklog.For("sketch").
func For(component string) *slog.Logger {
	return Get().With(slog.String("component", component))
}
