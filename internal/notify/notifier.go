// Package notify translates workflow events into notification requests for
// the external delivery service. Delivery itself is out of process; this
// package only decides who gets told about what and re-publishes
// notification.requested events the worker forwards.
package notify

import (
	"context"

	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/repository"

	"github.com/google/uuid"
)

// Template keys understood by the delivery service
const (
	TemplateOfferReceived     = "offer_received"
	TemplateShiftAssigned     = "shift_assigned"
	TemplateShiftCancelled    = "shift_cancelled"
	TemplateTimesheetApproved = "timesheet_approved"
	TemplateTimesheetRejected = "timesheet_rejected"
	TemplatePayoutProcessed   = "payout_processed"
	TemplatePayoutFailed      = "payout_failed"
)

// Notifier maps domain events to notification requests
type Notifier struct {
	store repository.Store
	bus   events.Bus
	log   *logger.Logger
}

// NewNotifier creates a notifier
func NewNotifier(store repository.Store, bus events.Bus) *Notifier {
	return &Notifier{
		store: store,
		bus:   bus,
		log:   logger.New(),
	}
}

// Register subscribes the notifier to the events that require a human to be
// told something
func (n *Notifier) Register(bus events.Bus) {
	bus.Subscribe("notify", events.OfferSent, n.handle(TemplateOfferReceived, fieldRecipient("employee_id")))
	bus.Subscribe("notify", events.ShiftAssigned, n.handle(TemplateShiftAssigned, n.locationEmployer))
	bus.Subscribe("notify", events.ShiftCancelled, n.handle(TemplateShiftCancelled, fieldRecipient("employee_id")))
	bus.Subscribe("notify", events.TimesheetEmployerApproved, n.handle(TemplateTimesheetApproved, fieldRecipient("employee_id")))
	bus.Subscribe("notify", events.TimesheetRejected, n.handle(TemplateTimesheetRejected, fieldRecipient("employee_id")))
	bus.Subscribe("notify", events.PayoutProcessed, n.handle(TemplatePayoutProcessed, fieldRecipient("agency_id")))
	bus.Subscribe("notify", events.PayoutFailed, n.handle(TemplatePayoutFailed, fieldRecipient("agency_id")))
}

// recipientFunc resolves who a notification goes to. Returning uuid.Nil
// skips the notification; a cancelled shift with no worker assigned yet has
// nobody to tell.
type recipientFunc func(evt events.Event) (uuid.UUID, error)

func fieldRecipient(key string) recipientFunc {
	return func(evt events.Event) (uuid.UUID, error) {
		raw, ok := evt.Fields[key].(string)
		if !ok {
			return uuid.Nil, nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, nil
		}
		return id, nil
	}
}

// locationEmployer resolves the employer owning the shift's location
func (n *Notifier) locationEmployer(evt events.Event) (uuid.UUID, error) {
	raw, ok := evt.Fields["location_id"].(string)
	if !ok {
		return uuid.Nil, nil
	}
	locationID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil
	}
	location, err := n.store.Parties().GetLocation(locationID)
	if err != nil {
		if repository.IsNotFound(err) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return location.EmployerID, nil
}

func (n *Notifier) handle(templateKey string, recipient recipientFunc) events.Handler {
	return func(ctx context.Context, evt events.Event) error {
		to, err := recipient(evt)
		if err != nil {
			return err
		}
		if to == uuid.Nil {
			return nil
		}
		return n.bus.Publish(ctx, events.NewNotificationRequested(to, templateKey, evt.Fields))
	}
}
