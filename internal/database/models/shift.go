package models

import (
	"time"

	"staffing-platform-backend/internal/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShiftStatus defines the lifecycle states of a shift
type ShiftStatus string

const (
	ShiftStatusOpen       ShiftStatus = "open"
	ShiftStatusOffered    ShiftStatus = "offered"
	ShiftStatusAssigned   ShiftStatus = "assigned"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusNoShow     ShiftStatus = "no_show"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

// IsValid checks if the ShiftStatus is valid
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusOpen, ShiftStatusOffered, ShiftStatusAssigned,
		ShiftStatusInProgress, ShiftStatusCompleted, ShiftStatusNoShow,
		ShiftStatusCancelled:
		return true
	}
	return false
}

// ShiftTransitions is the transition graph for shifts. Cancellation is
// reachable from every non-terminal state so an assignment cascade can
// always force it.
var ShiftTransitions = statemachine.New("shift", map[ShiftStatus][]ShiftStatus{
	ShiftStatusOpen:       {ShiftStatusOffered, ShiftStatusCancelled},
	ShiftStatusOffered:    {ShiftStatusAssigned, ShiftStatusOpen, ShiftStatusCancelled},
	ShiftStatusAssigned:   {ShiftStatusInProgress, ShiftStatusNoShow, ShiftStatusCancelled},
	ShiftStatusInProgress: {ShiftStatusCompleted, ShiftStatusCancelled},
})

// Shift represents one bounded work period tied to an assignment and location
type Shift struct {
	BaseModel
	AssignmentID *uuid.UUID      `json:"assignment_id" gorm:"type:uuid;index"`
	LocationID   uuid.UUID       `json:"location_id" gorm:"type:uuid;not null;index" validate:"required"`
	StartTime    time.Time       `json:"start_time" gorm:"not null" validate:"required"`
	EndTime      time.Time       `json:"end_time" gorm:"not null" validate:"required"`
	HourlyRate   decimal.Decimal `json:"hourly_rate" gorm:"type:numeric(10,2);not null;default:0"`
	Status       ShiftStatus     `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	// Billed is set once the shift's timesheet has been employer-approved
	// and handed to settlement.
	Billed             bool   `json:"billed" gorm:"default:false"`
	CancellationReason string `json:"cancellation_reason" gorm:"type:text"`
}

// TableName returns the table name for Shift
func (Shift) TableName() string {
	return "shifts"
}
