package events

import (
	"context"
	"sync"

	"staffing-platform-backend/internal/logger"
)

// Wildcard subscribes a handler to every event (audit log, webhooks)
const Wildcard = "*"

// Handler processes one delivered event. Delivery is at-least-once, so
// handlers must be idempotent. A returned error triggers redelivery up to
// the bus's bound.
type Handler func(ctx context.Context, evt Event) error

// Bus decouples state transitions from their side effects. Publish is called
// after the owning transaction commits; handlers run as independent queued
// tasks. subscriber names the consumer group: each subscriber gets its own
// delivery of every matching event, so two wildcard subscribers never compete
// for the same message.
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(subscriber, eventName string, h Handler)
}

// InMemoryBus dispatches events synchronously in-process. It backs unit
// tests and single-binary deployments without a broker.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates an in-process bus
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	if log == nil {
		log = logger.New()
	}
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for an event name, or all events via
// Wildcard. In-process dispatch already fans out to every handler, so the
// subscriber name only matters for the broker-backed bus.
func (b *InMemoryBus) Subscribe(subscriber, eventName string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

// Publish runs all matching handlers synchronously. Handler errors are
// logged, never propagated to the publisher: a failed side effect must not
// fail the workflow operation that triggered it.
func (b *InMemoryBus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[evt.Name])+len(b.handlers[Wildcard]))
	handlers = append(handlers, b.handlers[evt.Name]...)
	handlers = append(handlers, b.handlers[Wildcard]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			b.log.WithFields(map[string]interface{}{
				"event":     evt.Name,
				"target_id": evt.TargetID,
			}).WithError(err).Error("event handler failed")
		}
	}
	return nil
}
