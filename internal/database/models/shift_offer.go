package models

import (
	"time"

	"staffing-platform-backend/internal/statemachine"

	"github.com/google/uuid"
)

// OfferStatus defines the lifecycle states of a shift offer
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusExpired  OfferStatus = "expired"
)

// IsValid checks if the OfferStatus is valid
func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected, OfferStatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether the offer can no longer change state
func (s OfferStatus) IsTerminal() bool {
	return s != OfferStatusPending
}

// OfferTransitions is the transition graph for shift offers
var OfferTransitions = statemachine.New("shift_offer", map[OfferStatus][]OfferStatus{
	OfferStatusPending: {OfferStatusAccepted, OfferStatusRejected, OfferStatusExpired},
})

// ShiftOffer represents one offer of a shift to one employee. At most one
// pending offer may exist per shift (the candidate lock), enforced by a
// partial unique index on (shift_id) WHERE status = 'pending'.
type ShiftOffer struct {
	BaseModel
	ShiftID     uuid.UUID   `json:"shift_id" gorm:"type:uuid;not null;index" validate:"required"`
	EmployeeID  uuid.UUID   `json:"employee_id" gorm:"type:uuid;not null;index" validate:"required"`
	OfferedByID uuid.UUID   `json:"offered_by_id" gorm:"type:uuid;not null" validate:"required"`
	Status      OfferStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt   time.Time   `json:"expires_at" gorm:"not null" validate:"required"`
}

// TableName returns the table name for ShiftOffer
func (ShiftOffer) TableName() string {
	return "shift_offers"
}
