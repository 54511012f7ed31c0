// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger whose output lands in the test
// log, so it surfaces only for failing or verbose runs.
func NewTestLogger(tb testing.TB) *slog.Logger {
	tb.Helper()
	return slog.New(slog.NewTextHandler(&tlogWriter{tb: tb}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// tlogWriter adapts testing.TB to io.Writer, one log line per record.
type tlogWriter struct {
	tb testing.TB
}

func (w *tlogWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
