package audit_test

import (
	"context"
	"testing"

	"staffing-platform-backend/internal/audit"
	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/testutils"

	"github.com/stretchr/testify/assert"
)

func TestListener_RecordsEveryEvent(t *testing.T) {
	store := testutils.NewFakeStore()
	bus := testutils.NewRecordingBus()
	audit.NewListener(store).Register(bus)
	ctx := context.Background()

	shift := testutils.NewShiftFactory().Create()
	offer := testutils.NewOfferFactory().ForShift(shift.ID)

	assert.NoError(t, bus.Publish(ctx, events.NewShiftRequested("employer", shift)))
	assert.NoError(t, bus.Publish(ctx, events.NewOfferSent("agency", offer)))

	assert.Equal(t, 2, store.AuditCount())
}

func TestListener_RowCarriesActorAndPayload(t *testing.T) {
	store := testutils.NewFakeStore()
	listener := audit.NewListener(store)
	ctx := context.Background()

	shift := testutils.NewShiftFactory().WithStatus(models.ShiftStatusCancelled)
	evt := events.NewShiftCancelled("employer", shift, "site closed")
	assert.NoError(t, listener.Handle(ctx, evt))

	rows, total, err := store.AuditLogs().ListByTarget(shift.ID, 10, 0)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, events.ShiftCancelled, rows[0].Event)
	assert.Equal(t, "employer", rows[0].ActorType)
	assert.Equal(t, "shift", rows[0].TargetType)
	assert.Contains(t, string(rows[0].Payload), "site closed")
}
