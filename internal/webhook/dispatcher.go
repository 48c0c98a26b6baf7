// Package webhook delivers domain events to registered external receivers.
// Each delivery is a POST of the event's wire payload, signed with the
// subscriber's secret. Failed deliveries are logged and dropped; the bus's
// redelivery bound is the only retry.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/repository"
)

// Delivery headers
const (
	HeaderSignature = "X-Staffing-Signature"
	HeaderEvent     = "X-Staffing-Event"
)

// Dispatcher fans events out to matching active subscriptions
type Dispatcher struct {
	store  repository.Store
	client *http.Client
	log    *logger.Logger
}

// NewDispatcher creates a dispatcher with the configured per-request timeout
func NewDispatcher(store repository.Store, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		store:  store,
		client: &http.Client{Timeout: timeout},
		log:    logger.New(),
	}
}

// Register subscribes the dispatcher to all events
func (d *Dispatcher) Register(bus events.Bus) {
	bus.Subscribe("webhook", events.Wildcard, d.Handle)
}

// Handle delivers one event to every matching subscription. A single
// failing receiver does not block the others.
func (d *Dispatcher) Handle(ctx context.Context, evt events.Event) error {
	subs, err := d.store.WebhookSubscriptions().ListForEvent(evt.Name)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	body, err := evt.Body()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	for _, sub := range subs {
		if err := d.deliver(ctx, sub.URL, sub.Secret, evt.Name, body); err != nil {
			d.log.WithFields(map[string]interface{}{
				"event":           evt.Name,
				"subscription_id": sub.ID,
				"url":             sub.URL,
			}).WithError(err).Error("webhook delivery failed")
		}
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, url, secret, eventName string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, eventName)
	req.Header.Set(HeaderSignature, Sign(secret, body))

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("receiver returned %d", resp.StatusCode)
	}
	return nil
}
