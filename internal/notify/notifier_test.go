package notify_test

import (
	"context"
	"testing"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/notify"
	"staffing-platform-backend/internal/testutils"

	"github.com/stretchr/testify/assert"
)

func requested(bus *testutils.RecordingBus) []events.Event {
	var out []events.Event
	for _, evt := range bus.Published() {
		if evt.Name == events.NotificationRequested {
			out = append(out, evt)
		}
	}
	return out
}

func TestNotifier_OfferSentNotifiesEmployee(t *testing.T) {
	store := testutils.NewFakeStore()
	bus := testutils.NewRecordingBus()
	notify.NewNotifier(store, bus).Register(bus)

	offer := testutils.NewOfferFactory().Create()
	assert.NoError(t, bus.Publish(context.Background(), events.NewOfferSent("agency", offer)))

	notifications := requested(bus)
	assert.Len(t, notifications, 1)
	assert.Equal(t, offer.EmployeeID, notifications[0].TargetID)
	assert.Equal(t, notify.TemplateOfferReceived, notifications[0].Fields["template_key"])
}

func TestNotifier_ShiftAssignedNotifiesLocationEmployer(t *testing.T) {
	store := testutils.NewFakeStore()
	bus := testutils.NewRecordingBus()
	notify.NewNotifier(store, bus).Register(bus)

	employer := testutils.NewEmployerFactory().Create()
	store.SeedEmployer(employer)
	location := testutils.NewLocationFactory().WithEmployer(employer.ID)
	store.SeedLocation(location)

	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusAssigned)
	shift.LocationID = location.ID
	offer := testutils.NewOfferFactory().ForShift(shift.ID)

	assert.NoError(t, bus.Publish(context.Background(), events.NewShiftAssigned("employee", shift, offer)))

	notifications := requested(bus)
	assert.Len(t, notifications, 1)
	assert.Equal(t, employer.ID, notifications[0].TargetID)
	assert.Equal(t, notify.TemplateShiftAssigned, notifications[0].Fields["template_key"])
}

func TestNotifier_CancelledShiftWithoutWorkerIsSkipped(t *testing.T) {
	store := testutils.NewFakeStore()
	bus := testutils.NewRecordingBus()
	notify.NewNotifier(store, bus).Register(bus)

	// An open shift has no employee_id field, so there is nobody to notify
	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusCancelled)
	assert.NoError(t, bus.Publish(context.Background(), events.NewShiftCancelled("employer", shift, "site closed")))

	assert.Empty(t, requested(bus))
}

func TestNotifier_PayoutFailedNotifiesAgency(t *testing.T) {
	store := testutils.NewFakeStore()
	bus := testutils.NewRecordingBus()
	notify.NewNotifier(store, bus).Register(bus)

	agency := testutils.NewAgencyFactory().Create()
	payout := &models.Payout{AgencyID: agency.ID, Status: models.PayoutStatusFailed}

	assert.NoError(t, bus.Publish(context.Background(), events.NewPayoutFailed(payout, "provider unavailable")))

	notifications := requested(bus)
	assert.Len(t, notifications, 1)
	assert.Equal(t, agency.ID, notifications[0].TargetID)
	assert.Equal(t, notify.TemplatePayoutFailed, notifications[0].Fields["template_key"])
	assert.Equal(t, "provider unavailable", notifications[0].Fields["cause"])
}
