// Package testutil provides logging helpers for tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug logger that writes through t.Log, so its
// output only shows for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// LogRecorder keeps every record logged through its logger.
type LogRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogRecorder returns a logger together with the recorder behind it.
func NewLogRecorder() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(recordingHandler{rec: rec}), rec
}

// Messages returns the messages logged at level or above, in order.
func (r *LogRecorder) Messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, rec := range r.records {
		if rec.Level >= level {
			out = append(out, rec.Message)
		}
	}
	return out
}

// Attr returns the value of key on the first record with message msg.
func (r *LogRecorder) Attr(msg, key string) (slog.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.Message != msg {
			continue
		}
		var (
			val   slog.Value
			found bool
		)
		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				val, found = a.Value, true
				return false
			}
			return true
		})
		return val, found
	}
	return slog.Value{}, false
}

type recordingHandler struct {
	rec   *LogRecorder
	attrs []slog.Attr
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	r = r.Clone()
	r.AddAttrs(h.attrs...)
	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, r)
	h.rec.mu.Unlock()
	return nil
}

func (h recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return recordingHandler{rec: h.rec, attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)}
}

// WithGroup is flattened; tests only look at keys.
func (h recordingHandler) WithGroup(string) slog.Handler { return h }
