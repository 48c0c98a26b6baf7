package testutils

import (
	"context"
	"sync"

	"staffing-platform-backend/internal/events"
)

// RecordingBus captures published events for assertions and still dispatches
// to subscribed handlers like the in-process bus.
type RecordingBus struct {
	mu        sync.Mutex
	published []events.Event
	handlers  map[string][]events.Handler
}

// NewRecordingBus creates an empty recording bus
func NewRecordingBus() *RecordingBus {
	return &RecordingBus{handlers: make(map[string][]events.Handler)}
}

// Publish records the event and dispatches it synchronously
func (b *RecordingBus) Publish(ctx context.Context, evt events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, evt)
	handlers := append([]events.Handler{}, b.handlers[evt.Name]...)
	handlers = append(handlers, b.handlers[events.Wildcard]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers a handler; the subscriber name is not needed for
// in-process dispatch
func (b *RecordingBus) Subscribe(subscriber, eventName string, h events.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

// Published returns a copy of the captured events
func (b *RecordingBus) Published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event{}, b.published...)
}

// Names returns the captured event names in publish order
func (b *RecordingBus) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.published))
	for i, evt := range b.published {
		names[i] = evt.Name
	}
	return names
}

// Reset clears the captured events
func (b *RecordingBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}
