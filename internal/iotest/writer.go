// Package iotest provides test helpers that route output
// into the test log.
package iotest

import (
	"io"
	"log"
	"testing"

	"go.abhg.dev/pt2html/internal/linebuf"
)

// Writer builds an io.Writer that writes to the given testing.TB.
// Each line of output becomes one log entry.
// Partial lines are flushed when the test finishes.
func Writer(t testing.TB) io.Writer {
	w, done := linebuf.Writer(func(line []byte) {
		t.Logf("%s", line)
	})
	t.Cleanup(done)
	return w
}

// Logger builds a log.Logger that writes to the given testing.TB.
func Logger(t testing.TB) *log.Logger {
	return log.New(Writer(t), "", 0)
}
