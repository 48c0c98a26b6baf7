// Package events defines the domain events produced by the workflow services
// and the bus that carries them. Event names are stable strings consumed at
// the boundary; payloads are flat JSON objects with primary ids, ISO-8601
// timestamps and amounts as decimal strings.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
)

// Stable event names
const (
	ShiftRequested = "shift.requested"
	ShiftOffered   = "shift.offered"
	ShiftAssigned  = "shift.assigned"
	ShiftCompleted = "shift.completed"
	ShiftCancelled = "shift.cancelled"

	OfferSent     = "shift_offer.sent"
	OfferAccepted = "shift_offer.accepted"
	OfferRejected = "shift_offer.rejected"
	OfferExpired  = "shift_offer.expired"

	TimesheetSubmitted        = "timesheet.submitted"
	TimesheetAgencyApproved   = "timesheet.agency_approved"
	TimesheetEmployerApproved = "timesheet.employer_approved"
	TimesheetRejected         = "timesheet.rejected"

	AssignmentActivated = "assignment.activated"
	AssignmentSuspended = "assignment.suspended"
	AssignmentCompleted = "assignment.completed"
	AssignmentCancelled = "assignment.cancelled"
	AssignmentExtended  = "assignment.extended"

	InvoiceGenerated = "invoice.generated"
	InvoicePaid      = "invoice.paid"
	PayoutProcessed  = "payout.processed"
	PayoutFailed     = "payout.failed"

	NotificationRequested = "notification.requested"
)

// Event is one domain event. Fields holds the flat payload beyond the
// envelope keys; values must already be JSON-friendly (ids and amounts as
// strings, timestamps ISO-8601).
type Event struct {
	Name       string
	OccurredAt time.Time
	ActorType  string
	TargetType string
	TargetID   uuid.UUID
	Fields     map[string]any
}

// AuditSummary reports the event for the audit log without reflection
func (e Event) AuditSummary() (actorType, targetType string, targetID uuid.UUID, payload map[string]any) {
	return e.ActorType, e.TargetType, e.TargetID, e.Fields
}

// Body serializes the event to its flat wire payload
func (e Event) Body() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		m[k] = v
	}
	m["event"] = e.Name
	m["occurred_at"] = e.OccurredAt.UTC().Format(time.RFC3339)
	m["actor_type"] = e.ActorType
	m["target_type"] = e.TargetType
	m["target_id"] = e.TargetID.String()
	return json.Marshal(m)
}

// Decode rebuilds an event from its wire payload
func Decode(body []byte) (Event, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	e := Event{Fields: m}
	if name, ok := m["event"].(string); ok {
		e.Name = name
		delete(m, "event")
	}
	if at, ok := m["occurred_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, at); err == nil {
			e.OccurredAt = ts
		}
		delete(m, "occurred_at")
	}
	if actor, ok := m["actor_type"].(string); ok {
		e.ActorType = actor
		delete(m, "actor_type")
	}
	if target, ok := m["target_type"].(string); ok {
		e.TargetType = target
		delete(m, "target_type")
	}
	if id, ok := m["target_id"].(string); ok {
		if parsed, err := uuid.Parse(id); err == nil {
			e.TargetID = parsed
		}
		delete(m, "target_id")
	}
	return e, nil
}

func newEvent(name, actorType, targetType string, targetID uuid.UUID, fields map[string]any) Event {
	return Event{
		Name:       name,
		OccurredAt: time.Now().UTC(),
		ActorType:  actorType,
		TargetType: targetType,
		TargetID:   targetID,
		Fields:     fields,
	}
}

func shiftFields(s *models.Shift) map[string]any {
	f := map[string]any{
		"shift_id":    s.ID.String(),
		"location_id": s.LocationID.String(),
		"start_time":  s.StartTime.UTC().Format(time.RFC3339),
		"end_time":    s.EndTime.UTC().Format(time.RFC3339),
		"hourly_rate": s.HourlyRate.StringFixed(2),
		"status":      string(s.Status),
	}
	if s.AssignmentID != nil {
		f["assignment_id"] = s.AssignmentID.String()
	}
	return f
}

// NewShiftRequested is emitted when a shift is created open
func NewShiftRequested(actorType string, s *models.Shift) Event {
	return newEvent(ShiftRequested, actorType, "shift", s.ID, shiftFields(s))
}

// NewShiftOffered is emitted on the open -> offered transition
func NewShiftOffered(actorType string, s *models.Shift, o *models.ShiftOffer) Event {
	f := shiftFields(s)
	f["offer_id"] = o.ID.String()
	f["employee_id"] = o.EmployeeID.String()
	return newEvent(ShiftOffered, actorType, "shift", s.ID, f)
}

// NewShiftAssigned is emitted on the offered -> assigned transition
func NewShiftAssigned(actorType string, s *models.Shift, o *models.ShiftOffer) Event {
	f := shiftFields(s)
	f["offer_id"] = o.ID.String()
	f["employee_id"] = o.EmployeeID.String()
	return newEvent(ShiftAssigned, actorType, "shift", s.ID, f)
}

// NewShiftCompleted is emitted on the in_progress -> completed transition
func NewShiftCompleted(actorType string, s *models.Shift, ts *models.Timesheet) Event {
	f := shiftFields(s)
	f["timesheet_id"] = ts.ID.String()
	return newEvent(ShiftCompleted, actorType, "shift", s.ID, f)
}

// NewShiftCancelled carries the human-readable cancellation reason
func NewShiftCancelled(actorType string, s *models.Shift, reason string) Event {
	f := shiftFields(s)
	f["reason"] = reason
	return newEvent(ShiftCancelled, actorType, "shift", s.ID, f)
}

func offerFields(o *models.ShiftOffer) map[string]any {
	return map[string]any{
		"offer_id":    o.ID.String(),
		"shift_id":    o.ShiftID.String(),
		"employee_id": o.EmployeeID.String(),
		"status":      string(o.Status),
		"expires_at":  o.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// NewOfferSent is emitted when a pending offer is created
func NewOfferSent(actorType string, o *models.ShiftOffer) Event {
	return newEvent(OfferSent, actorType, "shift_offer", o.ID, offerFields(o))
}

// NewOfferAccepted is emitted when the employee accepts the offer
func NewOfferAccepted(actorType string, o *models.ShiftOffer) Event {
	return newEvent(OfferAccepted, actorType, "shift_offer", o.ID, offerFields(o))
}

// NewOfferRejected is emitted when the employee rejects the offer
func NewOfferRejected(actorType string, o *models.ShiftOffer) Event {
	return newEvent(OfferRejected, actorType, "shift_offer", o.ID, offerFields(o))
}

// NewOfferExpired is emitted by the sweep when a pending offer times out
func NewOfferExpired(o *models.ShiftOffer) Event {
	return newEvent(OfferExpired, "system", "shift_offer", o.ID, offerFields(o))
}

func timesheetFields(t *models.Timesheet) map[string]any {
	f := map[string]any{
		"timesheet_id": t.ID.String(),
		"shift_id":     t.ShiftID.String(),
		"employee_id":  t.EmployeeID.String(),
		"hours_worked": t.HoursWorked.StringFixed(2),
		"status":       string(t.Status),
	}
	if t.ClockIn != nil {
		f["clock_in"] = t.ClockIn.UTC().Format(time.RFC3339)
	}
	if t.ClockOut != nil {
		f["clock_out"] = t.ClockOut.UTC().Format(time.RFC3339)
	}
	return f
}

// NewTimesheetSubmitted is emitted when shift completion creates a timesheet
func NewTimesheetSubmitted(t *models.Timesheet) Event {
	return newEvent(TimesheetSubmitted, "system", "timesheet", t.ID, timesheetFields(t))
}

// NewTimesheetAgencyApproved is emitted on the first approval step
func NewTimesheetAgencyApproved(t *models.Timesheet) Event {
	return newEvent(TimesheetAgencyApproved, "agency", "timesheet", t.ID, timesheetFields(t))
}

// NewTimesheetEmployerApproved is the sole settlement trigger
func NewTimesheetEmployerApproved(t *models.Timesheet) Event {
	return newEvent(TimesheetEmployerApproved, "employer", "timesheet", t.ID, timesheetFields(t))
}

// NewTimesheetRejected carries the mandatory rejection reason
func NewTimesheetRejected(actorType string, t *models.Timesheet, reason string) Event {
	f := timesheetFields(t)
	f["reason"] = reason
	return newEvent(TimesheetRejected, actorType, "timesheet", t.ID, f)
}

func assignmentFields(a *models.Assignment) map[string]any {
	f := map[string]any{
		"assignment_id":  a.ID.String(),
		"agency_id":      a.AgencyID.String(),
		"employee_id":    a.EmployeeID.String(),
		"agreed_rate":    a.AgreedRate.StringFixed(2),
		"pay_rate":       a.PayRate.StringFixed(2),
		"markup_amount":  a.MarkupAmount.StringFixed(2),
		"markup_percent": a.MarkupPercent.StringFixed(2),
		"status":         string(a.Status),
	}
	if a.EndDate != nil {
		f["end_date"] = a.EndDate.UTC().Format(time.RFC3339)
	}
	return f
}

// NewAssignmentStatusChanged maps an assignment status transition to its
// event name
func NewAssignmentStatusChanged(name, actorType string, a *models.Assignment) Event {
	return newEvent(name, actorType, "assignment", a.ID, assignmentFields(a))
}

// NewAssignmentExtended is a distinct event, not a status change
func NewAssignmentExtended(actorType string, a *models.Assignment, priorEnd *time.Time, reason string) Event {
	f := assignmentFields(a)
	if priorEnd != nil {
		f["prior_end_date"] = priorEnd.UTC().Format(time.RFC3339)
	}
	f["reason"] = reason
	return newEvent(AssignmentExtended, actorType, "assignment", a.ID, f)
}

func invoiceFields(inv *models.Invoice) map[string]any {
	f := map[string]any{
		"invoice_id":   inv.ID.String(),
		"type":         string(inv.Type),
		"subtotal":     inv.Subtotal.StringFixed(2),
		"tax_amount":   inv.TaxAmount.StringFixed(2),
		"total_amount": inv.TotalAmount.StringFixed(2),
		"status":       string(inv.Status),
		"due_date":     inv.DueDate.UTC().Format(time.RFC3339),
	}
	if inv.TimesheetID != nil {
		f["timesheet_id"] = inv.TimesheetID.String()
	}
	if inv.SourceInvoiceID != nil {
		f["source_invoice_id"] = inv.SourceInvoiceID.String()
	}
	return f
}

// NewInvoiceGenerated is emitted when settlement creates an invoice
func NewInvoiceGenerated(inv *models.Invoice) Event {
	return newEvent(InvoiceGenerated, "system", "invoice", inv.ID, invoiceFields(inv))
}

// NewInvoicePaid is emitted on payment confirmation
func NewInvoicePaid(inv *models.Invoice) Event {
	return newEvent(InvoicePaid, "system", "invoice", inv.ID, invoiceFields(inv))
}

func payoutFields(p *models.Payout) map[string]any {
	return map[string]any{
		"payout_id":    p.ID.String(),
		"agency_id":    p.AgencyID.String(),
		"period_start": p.PeriodStart.UTC().Format(time.RFC3339),
		"period_end":   p.PeriodEnd.UTC().Format(time.RFC3339),
		"total_amount": p.TotalAmount.StringFixed(2),
		"status":       string(p.Status),
	}
}

// NewPayoutProcessed is emitted once the external payout call succeeds
func NewPayoutProcessed(p *models.Payout) Event {
	return newEvent(PayoutProcessed, "system", "payout", p.ID, payoutFields(p))
}

// NewPayoutFailed re-raises an execution failure for monitoring
func NewPayoutFailed(p *models.Payout, cause string) Event {
	f := payoutFields(p)
	f["cause"] = cause
	return newEvent(PayoutFailed, "system", "payout", p.ID, f)
}

// NewNotificationRequested enqueues one notification for external delivery
func NewNotificationRequested(recipientID uuid.UUID, templateKey string, payload map[string]any) Event {
	f := map[string]any{
		"recipient_id": recipientID.String(),
		"template_key": templateKey,
	}
	for k, v := range payload {
		f[k] = v
	}
	return newEvent(NotificationRequested, "system", "notification", recipientID, f)
}
