package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// SessionLogTimeFormat is the timestamp layout used for session log lines.
// External consumers stream these lines, so the format is part of the
// on-disk contract.
const SessionLogTimeFormat = "2006-01-02 15:04:05"

// sessionHandler appends one plain-text line per record to the session log:
//
//	[2006-01-02 15:04:05] message key=value ...
//
// Only record-level attrs are rendered; logger-level attrs such as run_id and
// component stay in the structured outputs.
type sessionHandler struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewSessionHandler returns a handler writing session log contract lines to w.
func NewSessionHandler(w io.Writer) slog.Handler {
	if w == nil {
		return NoopHandler{}
	}
	return &sessionHandler{writer: w}
}

func (h *sessionHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *sessionHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(timestamp.Format(SessionLogTimeFormat))
	b.WriteString("] ")
	b.WriteString(record.Message)
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == FieldEventType || attr.Key == FieldRunID {
			return true
		}
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(attr.Value.Resolve().Any()))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *sessionHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *sessionHandler) WithGroup(string) slog.Handler { return h }
