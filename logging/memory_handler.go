package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type LogAttrFormat string

const (
	LogAttrFormatText LogAttrFormat = "TEXT"
	LogAttrFormatJSON LogAttrFormat = "JSON"
)

// LogEntry is one captured log record, attrs pre-rendered per the
// configured format.
type LogEntry struct {
	Timestamp time.Time
	Level     slog.Level
	Message   string
	Attrs     string
}

// MemoryHandler keeps the most recent log records in a bounded in-memory
// ring so the web UI can show them without any persistence.
type MemoryHandler struct {
	mu         sync.Mutex
	entries    []LogEntry
	next       int
	filled     bool
	maxEntries int
	minLevel   slog.Level
	format     LogAttrFormat
}

func NewMemoryHandler(maxEntries int, minLevel slog.Level, format LogAttrFormat) *MemoryHandler {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryHandler{
		entries:    make([]LogEntry, maxEntries),
		maxEntries: maxEntries,
		minLevel:   minLevel,
		format:     format,
	}
}

func (h *MemoryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.minLevel {
		return nil
	}

	attrsStr := ""
	if strings.EqualFold(string(h.format), "text") {
		var b strings.Builder
		r.Attrs(func(a slog.Attr) bool {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			b.WriteString(a.Key)
			b.WriteString("=")
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(a.Value.String(), "=", "\\="), ";", "\\;"))
			return true
		})
		attrsStr = b.String()
	} else {
		var attrs []map[string]string
		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, map[string]string{a.Key: a.Value.String()})
			return true
		})
		if len(attrs) > 0 {
			jsonBytes, err := json.Marshal(attrs)
			if err != nil {
				attrsStr = fmt.Sprintf(`{"error": "%v"}`, err)
			} else {
				attrsStr = string(jsonBytes)
			}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = LogEntry{
		Timestamp: time.Now(),
		Level:     r.Level,
		Message:   r.Message,
		Attrs:     attrsStr,
	}
	h.next = (h.next + 1) % h.maxEntries
	if h.next == 0 {
		h.filled = true
	}
	return nil
}

// Entries returns the captured records, newest first.
func (h *MemoryHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.next
	if h.filled {
		count = h.maxEntries
	}

	out := make([]LogEntry, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, h.entries[(h.next-i+h.maxEntries)%h.maxEntries])
	}
	return out
}

func (h *MemoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *MemoryHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *MemoryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel
}
