// Package notify implements the change channel a tree provider uses to tell
// its consumers which node identifiers changed.
package notify

import "sync"

// Handler receives the identifiers changed by one committed mutation.
type Handler interface {
	TreeChanged(ids []string)
}

// HandlerFunc allows plain functions to satisfy Handler.
type HandlerFunc func(ids []string)

// TreeChanged dispatches to the underlying function.
func (fn HandlerFunc) TreeChanged(ids []string) {
	if fn == nil {
		return
	}
	fn(ids)
}

type registration struct {
	id      uint64
	handler Handler
}

// Notifier is a single-event publish/subscribe channel. It is safe for
// concurrent use; handlers are never called with the internal lock held.
type Notifier struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []registration
	closed   bool
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers handler and returns a subscription that removes exactly
// this registration when disposed. Subscribing to a closed notifier returns an
// already-disposed subscription.
func (n *Notifier) Subscribe(handler Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed || handler == nil {
		return &Subscription{disposed: true}
	}
	n.nextID++
	n.handlers = append(n.handlers, registration{id: n.nextID, handler: handler})
	return &Subscription{notifier: n, id: n.nextID}
}

// Publish delivers ids to every handler registered at the time of the call,
// in registration order. Each handler gets its own copy of ids.
func (n *Notifier) Publish(ids []string) {
	n.mu.Lock()
	if n.closed || len(n.handlers) == 0 {
		n.mu.Unlock()
		return
	}
	targets := make([]Handler, len(n.handlers))
	for i, r := range n.handlers {
		targets[i] = r.handler
	}
	n.mu.Unlock()

	for _, h := range targets {
		h.TreeChanged(append([]string(nil), ids...))
	}
}

// Len returns the number of registered handlers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.handlers)
}

// Close drops every handler. Later Subscribe calls are no-ops.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.handlers = nil
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, r := range n.handlers {
		if r.id == id {
			// Copy so a Publish iterating an older slice is unaffected.
			next := make([]registration, 0, len(n.handlers)-1)
			next = append(next, n.handlers[:i]...)
			n.handlers = append(next, n.handlers[i+1:]...)
			return
		}
	}
}

// Subscription is the disposable handle returned by Subscribe.
type Subscription struct {
	notifier *Notifier
	id       uint64

	once     sync.Once
	disposed bool
}

// Dispose unregisters the handler. It is safe to call more than once.
func (s *Subscription) Dispose() {
	if s == nil || s.disposed {
		return
	}
	s.once.Do(func() {
		if s.notifier != nil {
			s.notifier.remove(s.id)
		}
	})
}
