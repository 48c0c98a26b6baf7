package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleShift() *models.Shift {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &models.Shift{
		BaseModel:  models.BaseModel{ID: uuid.New()},
		LocationID: uuid.New(),
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
		HourlyRate: decimal.NewFromFloat(20.5),
		Status:     models.ShiftStatusOpen,
	}
}

func TestEventBody_FlatPayload(t *testing.T) {
	shift := sampleShift()
	evt := events.NewShiftRequested("employer", shift)

	body, err := evt.Body()
	assert.NoError(t, err)

	var payload map[string]any
	assert.NoError(t, json.Unmarshal(body, &payload))

	// Envelope keys and domain fields share one flat object
	assert.Equal(t, events.ShiftRequested, payload["event"])
	assert.Equal(t, "employer", payload["actor_type"])
	assert.Equal(t, "shift", payload["target_type"])
	assert.Equal(t, shift.ID.String(), payload["target_id"])
	assert.Equal(t, shift.ID.String(), payload["shift_id"])

	// Amounts are decimal strings, timestamps RFC3339
	assert.Equal(t, "20.50", payload["hourly_rate"])
	assert.Equal(t, "2026-03-02T09:00:00Z", payload["start_time"])
	_, err = time.Parse(time.RFC3339, payload["occurred_at"].(string))
	assert.NoError(t, err)
}

func TestEventDecode_Roundtrip(t *testing.T) {
	invoice := &models.Invoice{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Type:        models.InvoiceTypeEmployerToAgency,
		Subtotal:    decimal.NewFromFloat(151.60),
		TaxAmount:   decimal.NewFromFloat(31.84),
		TotalAmount: decimal.NewFromFloat(183.44),
		Status:      models.InvoiceStatusPending,
		DueDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	}
	original := events.NewInvoiceGenerated(invoice)

	body, err := original.Body()
	assert.NoError(t, err)

	decoded, err := events.Decode(body)
	assert.NoError(t, err)

	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.ActorType, decoded.ActorType)
	assert.Equal(t, original.TargetType, decoded.TargetType)
	assert.Equal(t, original.TargetID, decoded.TargetID)
	assert.True(t, decoded.OccurredAt.Equal(original.OccurredAt.Truncate(time.Second)))

	// Domain fields survive in Fields, without the envelope keys
	assert.Equal(t, "183.44", decoded.Fields["total_amount"])
	assert.NotContains(t, decoded.Fields, "event")
	assert.NotContains(t, decoded.Fields, "target_id")
}

func TestEventDecode_InvalidJSON(t *testing.T) {
	_, err := events.Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestNotificationRequested_MergesPayload(t *testing.T) {
	recipient := uuid.New()
	evt := events.NewNotificationRequested(recipient, "offer_received", map[string]any{
		"shift_id": "abc",
	})

	assert.Equal(t, events.NotificationRequested, evt.Name)
	assert.Equal(t, recipient, evt.TargetID)
	assert.Equal(t, recipient.String(), evt.Fields["recipient_id"])
	assert.Equal(t, "offer_received", evt.Fields["template_key"])
	assert.Equal(t, "abc", evt.Fields["shift_id"])
}
