// Package events fans change notifications out to in-process subscribers.
package events

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"budgetwise/internal/core"
)

// Broker delivers every published event to every current subscriber.
// Handlers run synchronously inside Publish and always see the event.
// Channel delivery never blocks: a subscriber whose buffer is full misses
// the event.
type Broker struct {
	mu       sync.RWMutex
	handlers []func(core.ChangeEvent)
	subs     map[uint64]chan core.ChangeEvent
	next     uint64
	closed   bool
	dropped  atomic.Uint64
	logger   *slog.Logger
}

func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{subs: map[uint64]chan core.ChangeEvent{}, logger: logger}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// cancel function unregisters it and closes the channel; it is safe to call
// more than once.
func (b *Broker) Subscribe(buffer int) (<-chan core.ChangeEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan core.ChangeEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Handle registers fn to run on every Publish before the event is handed to
// channel subscribers. fn must not call back into the broker.
func (b *Broker) Handle(fn func(core.ChangeEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Publish runs the handlers, then hands ev to every subscriber without
// waiting.
func (b *Broker) Publish(ev core.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, fn := range b.handlers {
		fn(ev)
	}
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
			b.logger.Warn("Dropping change event for slow subscriber",
				"component", "events", "subscriber", id, "kind", ev.Kind, "op", ev.Op)
		}
	}
}

// Dropped returns how many deliveries were skipped because a buffer was full.
func (b *Broker) Dropped() uint64 {
	return b.dropped.Load()
}

// Subscribers returns the number of active subscribers.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
