// Package logging configures the slog logger used by frame operations.
// Library code logs through L(); records below the configured level are
// dropped before any attribute is formatted.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	slogseq "github.com/sokkalf/slog-seq"

	"github.com/paveg/nestframe/internal/config"
)

var current atomic.Pointer[slog.Logger]

// L returns the package logger, building one from the global config on first use.
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	l, _ := New(config.GetGlobalConfig(), os.Stderr)
	current.CompareAndSwap(nil, l)
	return current.Load()
}

// Set replaces the package logger.
func Set(l *slog.Logger) { current.Store(l) }

// Discard silences the package logger.
func Discard() { Set(slog.New(slog.NewTextHandler(io.Discard, nil))) }

// New builds a text logger writing to w at the configured level. When
// cfg.SeqURL is set, records are also shipped to that Seq server; the
// returned function flushes and closes it.
func New(cfg config.Config, w io.Writer) (*slog.Logger, func()) {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	console := slog.NewTextHandler(w, opts)

	if cfg.SeqURL == "" {
		return slog.New(console), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		cfg.SeqURL,
		slogseq.WithBatchSize(50),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(opts),
	)
	if seqHandler == nil {
		return slog.New(console), func() {}
	}

	multi := &multiHandler{handlers: []slog.Handler{console, seqHandler}}
	return slog.New(multi), func() { seqHandler.Close() }
}

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
