// Package log builds the configured slog.Logger.
//
// Console output goes to stdout for non-error levels and stderr for errors.
// ANSI colors are used only when the stream is a terminal. An optional file
// handler writes JSON lines for later inspection of navigation traces.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LevelTrace sits below Debug; per-tick edge and focus traces log here.
const LevelTrace slog.Level = -8

// ParseLevel maps a config string to a slog level. Unknown strings fall
// back to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
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

// Setup builds the logger and sets it as the slog default. The returned
// closers own any opened log files.
func Setup(levelStr, file string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(levelStr)

	handlers := []slog.Handler{
		splitHandler{
			pass: func(l slog.Level) bool { return l < slog.LevelError },
			h:    newConsoleHandler(os.Stdout, level),
		},
		splitHandler{
			pass: func(l slog.Level) bool { return l >= slog.LevelError },
			h:    newConsoleHandler(os.Stderr, slog.LevelError),
		},
	}

	var closers []io.Closer
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		closers = append(closers, f)
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	logger := slog.New(fanout(handlers))
	slog.SetDefault(logger)
	return logger, closers, nil
}

// fanout duplicates records to every handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r)
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// splitHandler gates an underlying handler by a level predicate, so errors
// can be routed to stderr while normal logs stay on stdout.
type splitHandler struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (s splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.pass(level) && s.h.Enabled(ctx, level)
}

func (s splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if !s.pass(r.Level) {
		return nil
	}
	return s.h.Handle(ctx, r)
}

func (s splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return splitHandler{pass: s.pass, h: s.h.WithAttrs(attrs)}
}

func (s splitHandler) WithGroup(name string) slog.Handler {
	return splitHandler{pass: s.pass, h: s.h.WithGroup(name)}
}

func newConsoleHandler(f *os.File, level slog.Leveler) slog.Handler {
	if term.IsTerminal(int(f.Fd())) {
		return &colorHandler{w: f, level: level}
	}
	return slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
}

type colorHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString("\033[90m")
	buf.WriteString(r.Time.Format("15:04:05.000"))
	buf.WriteString("\033[0m ")

	buf.WriteString(levelColor(r.Level))
	buf.WriteString(fmt.Sprintf("%5s", levelName(r.Level)))
	buf.WriteString("\033[0m ")
	buf.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		buf.WriteString(" \033[36m")
		buf.WriteString(a.Key)
		buf.WriteString("\033[0m=")
		buf.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)

	buf.WriteString("\n")
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{w: h.w, level: h.level, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *colorHandler) WithGroup(string) slog.Handler { return h }

func levelName(l slog.Level) string {
	if l == LevelTrace {
		return "TRACE"
	}
	return l.String()
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "\033[31m"
	case l >= slog.LevelWarn:
		return "\033[33m"
	case l >= slog.LevelInfo:
		return "\033[32m"
	case l >= slog.LevelDebug:
		return "\033[34m"
	default:
		return "\033[35m"
	}
}
