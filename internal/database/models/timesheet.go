package models

import (
	"time"

	"staffing-platform-backend/internal/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimesheetStatus defines the dual-approval states of a timesheet
type TimesheetStatus string

const (
	TimesheetStatusPending          TimesheetStatus = "pending"
	TimesheetStatusAgencyApproved   TimesheetStatus = "agency_approved"
	TimesheetStatusEmployerApproved TimesheetStatus = "employer_approved"
	TimesheetStatusRejected         TimesheetStatus = "rejected"
)

// IsValid checks if the TimesheetStatus is valid
func (s TimesheetStatus) IsValid() bool {
	switch s {
	case TimesheetStatusPending, TimesheetStatusAgencyApproved,
		TimesheetStatusEmployerApproved, TimesheetStatusRejected:
		return true
	}
	return false
}

// TimesheetTransitions is the transition graph for timesheets. Approval only
// advances agency -> employer and never skips a step; rejection is terminal.
var TimesheetTransitions = statemachine.New("timesheet", map[TimesheetStatus][]TimesheetStatus{
	TimesheetStatusPending:        {TimesheetStatusAgencyApproved, TimesheetStatusRejected},
	TimesheetStatusAgencyApproved: {TimesheetStatusEmployerApproved, TimesheetStatusRejected},
})

// Timesheet records the hours worked on exactly one shift
type Timesheet struct {
	BaseModel
	ShiftID         uuid.UUID       `json:"shift_id" gorm:"type:uuid;not null;uniqueIndex" validate:"required"`
	EmployeeID      uuid.UUID       `json:"employee_id" gorm:"type:uuid;not null;index" validate:"required"`
	ClockIn         *time.Time      `json:"clock_in"`
	ClockOut        *time.Time      `json:"clock_out"`
	BreakMinutes    int             `json:"break_minutes" gorm:"not null;default:0" validate:"min=0"`
	HoursWorked     decimal.Decimal `json:"hours_worked" gorm:"type:numeric(8,2);not null;default:0"`
	Status          TimesheetStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string          `json:"rejection_reason" gorm:"type:text"`
}

// TableName returns the table name for Timesheet
func (Timesheet) TableName() string {
	return "timesheets"
}

// ComputeHours derives hours_worked from the clock times and break, rounded
// to two decimal places and floored at zero. Returns false when either clock
// time is missing.
func (t *Timesheet) ComputeHours() bool {
	if t.ClockIn == nil || t.ClockOut == nil {
		return false
	}
	minutes := t.ClockOut.Sub(*t.ClockIn).Minutes() - float64(t.BreakMinutes)
	hours := decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2)
	if hours.IsNegative() {
		hours = decimal.Zero
	}
	t.HoursWorked = hours
	return true
}
