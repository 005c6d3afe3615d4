package services

import (
	"context"
	"log/slog"

	"budgetwise/internal/amqp"
	"budgetwise/internal/core"

	"golang.org/x/sync/errgroup"
)

// Transport carries change messages between instances.
type Transport interface {
	Publish(ctx context.Context, msg *amqp.ChangeMessage) error
	ConsumeWithRetry(ctx context.Context, handler func(*amqp.ChangeMessage) error) error
}

// EventBus is the in-process side of the relay.
type EventBus interface {
	Publisher
	Subscribe(buffer int) (<-chan core.ChangeEvent, func())
}

// Relay forwards local change events to the transport and republishes
// messages from other instances locally. Messages carrying this
// instance's origin are ignored.
type Relay struct {
	transport Transport
	bus       EventBus
	origin    string
	logger    *slog.Logger
}

func NewRelay(t Transport, bus EventBus, origin string, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{transport: t, bus: bus, origin: origin, logger: logger}
}

// Run relays in both directions until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	events, cancel := r.bus.Subscribe(64)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.forward(ctx, events) })
	g.Go(func() error { return r.transport.ConsumeWithRetry(ctx, r.receive) })
	return g.Wait()
}

func (r *Relay) forward(ctx context.Context, events <-chan core.ChangeEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Remote {
				continue
			}
			if err := r.transport.Publish(ctx, amqp.NewChangeMessage(ev, r.origin)); err != nil {
				// other instances catch up when their caches expire
				r.logger.WarnContext(ctx, "Failed to relay change event",
					"component", "relay", "kind", ev.Kind, "id", ev.ID, "error", err)
			}
		}
	}
}

func (r *Relay) receive(msg *amqp.ChangeMessage) error {
	if msg.Origin == r.origin {
		return nil
	}
	r.bus.Publish(msg.Event())
	return nil
}
