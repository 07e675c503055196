package loadrun

import "sync"

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

// Bus fans lifecycle events out to subscribers. Delivery is best-effort and
// non-persistent: a full subscriber drops events rather than blocking the
// publisher, and there is no backlog, so a late subscriber has permanently
// missed anything published before it subscribed.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of future events and a function that cancels
// the subscription and closes the channel. The cancel function is safe to
// call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

// Publish delivers ev to every current subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up; drop rather than block.
		}
	}
}
