// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the studio project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/olegiv/studio-go/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError + 4,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// The database is closed when the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "studio-test.db")
	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Recorder keeps every log record handled by a RecordingLogger.
type Recorder struct {
	mu      sync.Mutex
	records []recorded
}

type recorded struct {
	level slog.Level
	msg   string
	attrs map[string]any
}

// RecordingLogger returns a logger that captures records at all levels.
func RecordingLogger() (*slog.Logger, *Recorder) {
	rec := &Recorder{}
	return slog.New(&recordingHandler{rec: rec}), rec
}

// Messages returns the attributes of every record with the given message.
func (r *Recorder) Messages(msg string) []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []map[string]any
	for _, rec := range r.records {
		if rec.msg == msg {
			out = append(out, rec.attrs)
		}
	}
	return out
}

// Count returns the number of records at or above level.
func (r *Recorder) Count(level slog.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, rec := range r.records {
		if rec.level >= level {
			n++
		}
	}
	return n
}

type recordingHandler struct {
	rec   *Recorder
	attrs []slog.Attr
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, recorded{level: r.Level, msg: r.Message, attrs: attrs})
	h.rec.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{rec: h.rec, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }
