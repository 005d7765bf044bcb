// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// root holds the handler every logger created by WithContext ends up writing to.
var root atomic.Pointer[slog.Handler]

func init() {
	var h slog.Handler = DiscardHandler()
	root.Store(&h)
}

// SetDefault sets the default global logger.
// Loggers created earlier through WithContext follow the new handler.
func SetDefault(l Logger) {
	h := l.Handler()
	root.Store(&h)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger.
func Root() Logger {
	return &logger{slog.New(&rootHandler{})}
}

// WithContext returns a logger bound to the root handler with the given context pairs,
// usually a "pkg" name, e.g. log.WithContext("pkg", "txpool").
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// rootHandler resolves the current root handler on every record.
type rootHandler struct {
	attrs []slog.Attr
}

func (h *rootHandler) current() slog.Handler {
	return *root.Load()
}

func (h *rootHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.current().Enabled(ctx, level)
}

func (h *rootHandler) Handle(ctx context.Context, r slog.Record) error {
	inner := h.current()
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	return inner.Handle(ctx, r)
}

func (h *rootHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	return &rootHandler{append(merged, attrs...)}
}

func (h *rootHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

// The following functions bypass the exported logger methods so that the
// call site recorded in the record is the caller of these helpers.

func Trace(msg string, ctx ...any) { Root().(*logger).write(LevelTrace, msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().(*logger).write(LevelDebug, msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().(*logger).write(LevelInfo, msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().(*logger).write(LevelWarn, msg, ctx...) }
func Error(msg string, ctx ...any) { Root().(*logger).write(LevelError, msg, ctx...) }
