// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the process-wide leveled logger, a thin wrapper
// over log/slog with bound context key/values.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger writes leveled records with bound context.
type Logger interface {
	With(ctx ...interface{}) Logger

	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) With(ctx ...interface{}) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Debug(msg string, ctx ...interface{}) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.inner.Error(msg, ctx...) }

var (
	root    atomic.Value
	rootLvl = new(slog.LevelVar)
)

func init() {
	rootLvl.Set(slog.LevelInfo)
	root.Store(Logger(&logger{slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: rootLvl}))}))
}

// Root returns the process-wide logger.
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns the root logger with bound context key/values.
func WithContext(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}

// SetOutput redirect the root logger to the given writer at the given level.
func SetOutput(w io.Writer, lvl slog.Level) {
	rootLvl.Set(lvl)
	root.Store(Logger(&logger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: rootLvl}))}))
}

// SetJSONOutput is like SetOutput but emits JSON records, for
// non-interactive sessions feeding a log collector.
func SetJSONOutput(w io.Writer, lvl slog.Level) {
	rootLvl.Set(lvl)
	root.Store(Logger(&logger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: rootLvl}))}))
}

// SetLevel adjusts the root logger verbosity.
func SetLevel(lvl slog.Level) {
	rootLvl.Set(lvl)
}

// LevelFromVerbosity maps a 0..4 verbosity flag onto slog levels.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelError
	case v == 1:
		return slog.LevelWarn
	case v == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
