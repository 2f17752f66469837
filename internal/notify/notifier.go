// Package notify decouples queue mutation from UI badge updates with an
// in-process publish/subscribe mechanism. Delivery is synchronous and
// best-effort: a panicking subscriber must never fail the queue operation
// that triggered the publish.
package notify

import "sync"

// Handler receives the updated pending count after a queue mutation.
type Handler func(pendingCount int64)

// Notifier fans a pending count out to registered handlers.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]Handler
}

// New returns an empty Notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it. The
// returned unsubscribe is idempotent.
func (n *Notifier) Subscribe(h Handler) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.subs[id] = h

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish delivers pendingCount to every subscriber. Handlers run
// synchronously outside the notifier lock; panics are swallowed.
func (n *Notifier) Publish(pendingCount int64) {
	n.mu.Lock()
	handlers := make([]Handler, 0, len(n.subs))
	for _, h := range n.subs {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		deliver(h, pendingCount)
	}
}

func deliver(h Handler, pendingCount int64) {
	defer func() { _ = recover() }()
	h(pendingCount)
}
