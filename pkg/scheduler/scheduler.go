// Package scheduler defers work to the "next tick" of a host event loop.
package scheduler

import (
	"context"
	"sync"
)

// Scheduler runs a task at some point after the current call returns.
type Scheduler interface {
	Schedule(task func())
}

// Func allows plain functions to satisfy Scheduler.
type Func func(task func())

// Schedule dispatches to the underlying function.
func (fn Func) Schedule(task func()) {
	fn(task)
}

// Loop is a cooperative task queue. Tasks run only when the owner drains the
// loop, which makes "after the current tick" deterministic: everything the
// caller does before the next Drain happens before any scheduled task.
// The zero value is ready to use.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Schedule enqueues task. Tasks scheduled on a closed loop are dropped.
func (l *Loop) Schedule(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	wake := l.wakeLocked()
	l.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

// wakeLocked returns the wake channel, creating it on first use. Callers
// hold l.mu.
func (l *Loop) wakeLocked() chan struct{} {
	if l.wake == nil {
		l.wake = make(chan struct{}, 1)
	}
	return l.wake
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued tasks in FIFO order on the calling goroutine, including
// tasks enqueued while draining. It returns the number of tasks run.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		task := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		task()
		ran++
	}
}

// Run drains the loop whenever work arrives until ctx is done, then closes it.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	l.mu.Lock()
	wake := l.wakeLocked()
	l.mu.Unlock()
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
		}
	}
}

// Close discards pending tasks and rejects new ones.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.queue = nil
}
