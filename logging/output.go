package logging

import (
	"io"
	"os"
	"sync/atomic"
)

type writerBox struct{ w io.Writer }

// stderrSink is the terminal-facing writer shared by every logger. Loggers
// hold the sink itself, so redirecting it affects loggers already built.
type stderrSink struct {
	target atomic.Pointer[writerBox]
}

func (s *stderrSink) Write(p []byte) (int, error) {
	return s.target.Load().w.Write(p)
}

var sink = newStderrSink()

func newStderrSink() *stderrSink {
	s := &stderrSink{}
	s.target.Store(&writerBox{w: os.Stderr})
	return s
}

// RedirectStderr sends terminal-bound log lines to w until the returned
// function is called.
func RedirectStderr(w io.Writer) (restore func()) {
	prev := sink.target.Swap(&writerBox{w: w})
	return func() { sink.target.Store(prev) }
}
