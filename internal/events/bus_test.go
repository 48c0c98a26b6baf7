package events_test

import (
	"context"
	"testing"

	"staffing-platform-backend/internal/events"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryBus_FanOutToAllSubscribers(t *testing.T) {
	bus := events.NewInMemoryBus(nil)

	var audited, dispatched, named int
	bus.Subscribe("audit", events.Wildcard, func(ctx context.Context, evt events.Event) error {
		audited++
		return nil
	})
	bus.Subscribe("webhook", events.Wildcard, func(ctx context.Context, evt events.Event) error {
		dispatched++
		return nil
	})
	bus.Subscribe("settlement", events.InvoicePaid, func(ctx context.Context, evt events.Event) error {
		named++
		return nil
	})

	assert.NoError(t, bus.Publish(context.Background(), events.Event{Name: events.InvoicePaid}))
	assert.NoError(t, bus.Publish(context.Background(), events.Event{Name: events.ShiftRequested}))

	// Every subscriber sees every matching event; wildcard subscribers do
	// not split deliveries between them
	assert.Equal(t, 2, audited)
	assert.Equal(t, 2, dispatched)
	assert.Equal(t, 1, named)
}

func TestInMemoryBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := events.NewInMemoryBus(nil)
	bus.Subscribe("audit", events.Wildcard, func(ctx context.Context, evt events.Event) error {
		return assert.AnError
	})

	assert.NoError(t, bus.Publish(context.Background(), events.Event{Name: events.ShiftRequested}))
}
