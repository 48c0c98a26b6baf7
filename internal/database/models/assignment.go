package models

import (
	"time"

	"staffing-platform-backend/internal/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssignmentStatus defines the lifecycle states of an assignment
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusSuspended AssignmentStatus = "suspended"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// IsValid checks if the AssignmentStatus is valid
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusActive, AssignmentStatusSuspended,
		AssignmentStatusCompleted, AssignmentStatusCancelled:
		return true
	}
	return false
}

// AssignmentTransitions is the transition graph for assignments
var AssignmentTransitions = statemachine.New("assignment", map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusPending:   {AssignmentStatusActive, AssignmentStatusCancelled},
	AssignmentStatusActive:    {AssignmentStatusSuspended, AssignmentStatusCompleted, AssignmentStatusCancelled},
	AssignmentStatusSuspended: {AssignmentStatusActive, AssignmentStatusCancelled},
})

// Assignment represents a standing placement of one employee with one
// employer through one agency contract, spanning many shifts.
//
// The financial fields are fixed at creation: markup_amount is always
// agreed_rate - pay_rate and markup_percent is markup_amount / pay_rate x 100
// (zero when pay_rate is zero). They are only recomputed through the explicit
// rate-correction operation, never implicitly.
type Assignment struct {
	BaseModel
	ContractID       uuid.UUID        `json:"contract_id" gorm:"type:uuid;not null;index" validate:"required"`
	AgencyID         uuid.UUID        `json:"agency_id" gorm:"type:uuid;not null;index" validate:"required"`
	EmployeeID       uuid.UUID        `json:"employee_id" gorm:"type:uuid;not null;index" validate:"required"`
	LocationID       uuid.UUID        `json:"location_id" gorm:"type:uuid;not null;index" validate:"required"`
	Role             string           `json:"role" gorm:"size:100;not null" validate:"required,max=100"`
	StartDate        time.Time        `json:"start_date" gorm:"type:date;not null" validate:"required"`
	EndDate          *time.Time       `json:"end_date" gorm:"type:date"`
	AgreedRate       decimal.Decimal  `json:"agreed_rate" gorm:"type:numeric(10,2);not null"`
	PayRate          decimal.Decimal  `json:"pay_rate" gorm:"type:numeric(10,2);not null"`
	MarkupAmount     decimal.Decimal  `json:"markup_amount" gorm:"type:numeric(10,2);not null"`
	MarkupPercent    decimal.Decimal  `json:"markup_percent" gorm:"type:numeric(8,2);not null"`
	Status           AssignmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CancellationNote string           `json:"cancellation_note" gorm:"type:text"`
}

// TableName returns the table name for Assignment
func (Assignment) TableName() string {
	return "assignments"
}

// ComputeMarkup derives markup_amount and markup_percent from the rates,
// rounded to two decimal places.
func (a *Assignment) ComputeMarkup() {
	a.MarkupAmount = a.AgreedRate.Sub(a.PayRate).Round(2)
	if a.PayRate.IsZero() {
		a.MarkupPercent = decimal.Zero
		return
	}
	a.MarkupPercent = a.MarkupAmount.Div(a.PayRate).Mul(decimal.NewFromInt(100)).Round(2)
}

// AssignmentExtension records one extension of an assignment's end date,
// keeping the prior end date for audit.
type AssignmentExtension struct {
	BaseModel
	AssignmentID uuid.UUID  `json:"assignment_id" gorm:"type:uuid;not null;index" validate:"required"`
	PriorEndDate *time.Time `json:"prior_end_date" gorm:"type:date"`
	NewEndDate   time.Time  `json:"new_end_date" gorm:"type:date;not null" validate:"required"`
	Reason       string     `json:"reason" gorm:"type:text"`
	ExtendedByID uuid.UUID  `json:"extended_by_id" gorm:"type:uuid"`
}

// TableName returns the table name for AssignmentExtension
func (AssignmentExtension) TableName() string {
	return "assignment_extensions"
}
