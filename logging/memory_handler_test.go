package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func record(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)
	return r
}

func TestMemoryHandlerCapturesNewestFirst(t *testing.T) {
	h := NewMemoryHandler(10, slog.LevelInfo, LogAttrFormatJSON)

	for i := 0; i < 3; i++ {
		if err := h.Handle(context.Background(), record(slog.LevelInfo, fmt.Sprintf("msg-%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "msg-2" || entries[2].Message != "msg-0" {
		t.Errorf("expected newest first, got %q ... %q", entries[0].Message, entries[2].Message)
	}
}

func TestMemoryHandlerRingOverwritesOldest(t *testing.T) {
	h := NewMemoryHandler(3, slog.LevelInfo, LogAttrFormatJSON)

	for i := 0; i < 5; i++ {
		h.Handle(context.Background(), record(slog.LevelInfo, fmt.Sprintf("msg-%d", i)))
	}

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected ring capped at 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "msg-4" || entries[2].Message != "msg-2" {
		t.Errorf("expected msg-4..msg-2, got %q ... %q", entries[0].Message, entries[2].Message)
	}
}

func TestMemoryHandlerFiltersBelowMinLevel(t *testing.T) {
	h := NewMemoryHandler(10, slog.LevelWarn, LogAttrFormatJSON)

	h.Handle(context.Background(), record(slog.LevelInfo, "dropped"))
	h.Handle(context.Background(), record(slog.LevelError, "kept"))

	entries := h.Entries()
	if len(entries) != 1 || entries[0].Message != "kept" {
		t.Errorf("expected only the error record, got %+v", entries)
	}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled must be false below min level")
	}
}

func TestMemoryHandlerTextAttrs(t *testing.T) {
	h := NewMemoryHandler(10, slog.LevelInfo, LogAttrFormatText)

	h.Handle(context.Background(), record(slog.LevelInfo, "msg",
		slog.String("country", "cz"), slog.String("odd", "a=b;c")))

	entries := h.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Attrs, "country=cz") {
		t.Errorf("expected text attrs, got %q", entries[0].Attrs)
	}
	if !strings.Contains(entries[0].Attrs, `a\=b\;c`) {
		t.Errorf("expected separators escaped, got %q", entries[0].Attrs)
	}
}

func TestMemoryHandlerJSONAttrs(t *testing.T) {
	h := NewMemoryHandler(10, slog.LevelInfo, LogAttrFormatJSON)

	h.Handle(context.Background(), record(slog.LevelInfo, "msg", slog.String("country", "cz")))

	entries := h.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Attrs != `[{"country":"cz"}]` {
		t.Errorf("unexpected json attrs: %q", entries[0].Attrs)
	}
}

func TestLevelFromString(t *testing.T) {
	debug := "debug"
	bogus := "bogus"

	tests := []struct {
		in       *string
		expected slog.Level
	}{
		{nil, slog.LevelInfo},
		{&debug, slog.LevelDebug},
		{&bogus, slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.expected {
			t.Errorf("LevelFromString(%v) expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}
