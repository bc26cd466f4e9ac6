package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	calls *[]string
	ids   [][]string
}

func (r *recorder) TreeChanged(ids []string) {
	*r.calls = append(*r.calls, r.name)
	r.ids = append(r.ids, ids)
}

func TestPublishInRegistrationOrder(t *testing.T) {
	n := New()
	var calls []string
	a := &recorder{name: "a", calls: &calls}
	b := &recorder{name: "b", calls: &calls}
	c := &recorder{name: "c", calls: &calls}
	n.Subscribe(a)
	n.Subscribe(b)
	n.Subscribe(c)

	n.Publish([]string{"w1"})

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, [][]string{{"w1"}}, b.ids)
}

func TestDisposeRemovesOnlyThatHandler(t *testing.T) {
	n := New()
	var calls []string
	a := &recorder{name: "a", calls: &calls}
	b := &recorder{name: "b", calls: &calls}
	subA := n.Subscribe(a)
	n.Subscribe(b)

	subA.Dispose()
	subA.Dispose()
	n.Publish([]string{"root"})

	assert.Equal(t, []string{"b"}, calls)
	assert.Equal(t, 1, n.Len())
}

func TestSameHandlerSubscribedTwice(t *testing.T) {
	n := New()
	count := 0
	h := HandlerFunc(func([]string) { count++ })
	first := n.Subscribe(h)
	n.Subscribe(h)

	first.Dispose()
	n.Publish([]string{"root"})

	assert.Equal(t, 1, count)
}

func TestHandlersReceiveIndependentSlices(t *testing.T) {
	n := New()
	var second []string
	n.Subscribe(HandlerFunc(func(ids []string) { ids[0] = "mutated" }))
	n.Subscribe(HandlerFunc(func(ids []string) { second = ids }))

	n.Publish([]string{"w1"})

	assert.Equal(t, []string{"w1"}, second)
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	n := New()
	var calls []string
	var subB *Subscription
	n.Subscribe(HandlerFunc(func([]string) {
		calls = append(calls, "a")
		subB.Dispose()
	}))
	subB = n.Subscribe(HandlerFunc(func([]string) { calls = append(calls, "b") }))

	n.Publish([]string{"root"})
	n.Publish([]string{"root"})

	// b was registered when the first publish started, so it still sees it.
	assert.Equal(t, []string{"a", "b", "a"}, calls)
}

func TestClose(t *testing.T) {
	n := New()
	called := false
	n.Subscribe(HandlerFunc(func([]string) { called = true }))
	n.Close()

	sub := n.Subscribe(HandlerFunc(func([]string) { called = true }))
	sub.Dispose()
	n.Publish([]string{"root"})

	assert.False(t, called)
	assert.Equal(t, 0, n.Len())
}

func TestNilHandler(t *testing.T) {
	n := New()
	sub := n.Subscribe(nil)
	assert.Equal(t, 0, n.Len())
	sub.Dispose()

	var fn HandlerFunc
	fn.TreeChanged([]string{"root"})
}
