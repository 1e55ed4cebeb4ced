package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIdupHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "scan started",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tscan started\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "skipping non-image",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tskipping non-image\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelError,
			message: "file failed",
			attrs:   []slog.Attr{slog.String("path", "/photos/x.png"), slog.Int("workers", 4)},
			want:    "2024-06-15T14:30:45Z\tERROR\top-789\tfile failed\tpath=/photos/x.png\tworkers=4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &idupHandler{w: &buf, opID: tt.opID, level: slog.LevelDebug}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestIdupHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &idupHandler{w: &buf, opID: "op-1", level: slog.LevelInfo, attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "scan")}).(*idupHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if h2.level.Level() != slog.LevelInfo {
		t.Errorf("level not carried over: %v", h2.level)
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "upload", 0)
	r.AddAttrs(slog.String("key", "abc"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"a=1", "component=scan", "key=abc"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in output, got: %q", want, got)
		}
	}
}

func TestIdupHandler_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		min      slog.Level
		level    slog.Level
		expected bool
	}{
		{"info hides debug", slog.LevelInfo, slog.LevelDebug, false},
		{"info shows info", slog.LevelInfo, slog.LevelInfo, true},
		{"info shows error", slog.LevelInfo, slog.LevelError, true},
		{"debug shows debug", slog.LevelDebug, slog.LevelDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &idupHandler{level: tt.min}
			if got := h.Enabled(context.Background(), tt.level); got != tt.expected {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-op", false)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("visible", "k", "v")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "hidden") {
		t.Error("debug record written without verbose")
	}
	if !strings.Contains(got, "\ttest-op\tvisible\tk=v") {
		t.Errorf("log file = %q", got)
	}
}
