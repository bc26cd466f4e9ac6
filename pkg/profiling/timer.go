// Package profiling records nested timing spans for CLI runs and wires
// pprof output to cobra flags.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span started with Start.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	depth    int
	start    time.Time
	duration time.Duration
	stopped  bool
	timer    *Timer
}

func (s *span) Stop() {
	s.timer.stop(s)
}

// Timer collects spans in start order. Spans nest when started before the
// enclosing span stops.
type Timer struct {
	mu      sync.Mutex
	enabled bool
	began   time.Time
	spans   []*span
	open    int
}

var global = &Timer{}

// Enable turns on the process-wide timer.
func Enable() {
	global.Enable()
}

// Start begins a span on the process-wide timer.
func Start(name string) Stopper {
	return global.Start(name)
}

// Summarize writes the process-wide timing report.
func Summarize(w io.Writer) {
	global.Summarize(w)
}

// Enable starts recording. Calling it again has no effect.
func (t *Timer) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return
	}
	t.enabled = true
	t.began = time.Now()
}

// Start begins a span. It is a no-op until Enable is called.
func (t *Timer) Start(name string) Stopper {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return noopStopper{}
	}
	s := &span{name: name, depth: t.open, start: time.Now(), timer: t}
	t.spans = append(t.spans, s)
	t.open++
	return s
}

func (t *Timer) stop(s *span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.duration = time.Since(s.start)
	if t.open > 0 {
		t.open--
	}
}

// Summarize writes one line per span with its share of the total run time.
func (t *Timer) Summarize(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}

	total := time.Since(t.began)
	fmt.Fprintln(w, "\n--- Timing Profile ---")
	for _, s := range t.spans {
		pct := 0.0
		if total > 0 {
			pct = float64(s.duration) / float64(total) * 100
		}
		fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", strings.Repeat("  ", s.depth+1), s.name, s.duration.Round(100*time.Microsecond), pct)
	}
	fmt.Fprintln(w, "--------------------")
}

type noopStopper struct{}

func (noopStopper) Stop() {}
