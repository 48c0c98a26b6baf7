package models

import (
	"time"

	"staffing-platform-backend/internal/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus defines the lifecycle states of a payout
type PayoutStatus string

const (
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusPaid       PayoutStatus = "paid"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// IsValid checks if the PayoutStatus is valid
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusProcessing, PayoutStatusPaid, PayoutStatusFailed:
		return true
	}
	return false
}

// PayoutTransitions is the transition graph for payouts. A failed payout is
// re-dispatched by an external scheduler, so failed -> processing stays open.
var PayoutTransitions = statemachine.New("payout", map[PayoutStatus][]PayoutStatus{
	PayoutStatusProcessing: {PayoutStatusPaid, PayoutStatusFailed},
	PayoutStatusFailed:     {PayoutStatusProcessing},
})

// Payout aggregates an agency's share of paid invoices over one payout
// period. total_amount accumulates the agency share of each paid invoice
// (invoice total minus the platform commission); the employee-facing
// breakdown lives in the payout's payroll rows.
type Payout struct {
	BaseModel
	AgencyID    uuid.UUID       `json:"agency_id" gorm:"type:uuid;not null;index"`
	PeriodStart time.Time       `json:"period_start" gorm:"type:date;not null"`
	PeriodEnd   time.Time       `json:"period_end" gorm:"type:date;not null"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null;default:0"`
	Status      PayoutStatus    `json:"status" gorm:"type:varchar(20);not null;default:'processing';index"`
	FailureNote string          `json:"failure_note" gorm:"type:text"`
}

// TableName returns the table name for Payout
func (Payout) TableName() string {
	return "payouts"
}
