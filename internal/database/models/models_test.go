package models_test

import (
	"testing"
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeHours_RoundsToTwoDecimals(t *testing.T) {
	// 8h05m minus 30m break = 455 minutes = 7.5833... -> 7.58
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8*time.Hour + 5*time.Minute)
	timesheet := &models.Timesheet{
		ClockIn:      &clockIn,
		ClockOut:     &clockOut,
		BreakMinutes: 30,
	}

	ok := timesheet.ComputeHours()

	assert.True(t, ok)
	assert.Equal(t, "7.58", timesheet.HoursWorked.StringFixed(2))
}

func TestComputeHours_FlooredAtZero(t *testing.T) {
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(15 * time.Minute)
	timesheet := &models.Timesheet{
		ClockIn:      &clockIn,
		ClockOut:     &clockOut,
		BreakMinutes: 60,
	}

	ok := timesheet.ComputeHours()

	assert.True(t, ok)
	assert.True(t, timesheet.HoursWorked.IsZero())
}

func TestComputeHours_MissingClockTimes(t *testing.T) {
	clockIn := time.Now()
	timesheet := &models.Timesheet{ClockIn: &clockIn}

	assert.False(t, timesheet.ComputeHours())
	assert.True(t, timesheet.HoursWorked.IsZero())
}

func TestComputeMarkup(t *testing.T) {
	assignment := &models.Assignment{
		AgreedRate: decimal.NewFromInt(25),
		PayRate:    decimal.NewFromInt(20),
	}

	assignment.ComputeMarkup()

	assert.Equal(t, "5.00", assignment.MarkupAmount.StringFixed(2))
	assert.Equal(t, "25.00", assignment.MarkupPercent.StringFixed(2))
}

func TestComputeMarkup_ZeroPayRate(t *testing.T) {
	assignment := &models.Assignment{
		AgreedRate: decimal.NewFromInt(25),
		PayRate:    decimal.Zero,
	}

	assignment.ComputeMarkup()

	assert.Equal(t, "25.00", assignment.MarkupAmount.StringFixed(2))
	assert.True(t, assignment.MarkupPercent.IsZero())
}

func TestShiftTransitions(t *testing.T) {
	assert.True(t, models.ShiftTransitions.CanTransition(models.ShiftStatusOpen, models.ShiftStatusOffered))
	assert.True(t, models.ShiftTransitions.CanTransition(models.ShiftStatusOffered, models.ShiftStatusOpen))
	assert.True(t, models.ShiftTransitions.CanTransition(models.ShiftStatusAssigned, models.ShiftStatusNoShow))
	assert.False(t, models.ShiftTransitions.CanTransition(models.ShiftStatusOpen, models.ShiftStatusAssigned))
	assert.False(t, models.ShiftTransitions.CanTransition(models.ShiftStatusCompleted, models.ShiftStatusOpen))

	// Cancellation is reachable from every non-terminal state
	for _, from := range []models.ShiftStatus{
		models.ShiftStatusOpen, models.ShiftStatusOffered,
		models.ShiftStatusAssigned, models.ShiftStatusInProgress,
	} {
		assert.True(t, models.ShiftTransitions.CanTransition(from, models.ShiftStatusCancelled), string(from))
	}
}

func TestTimesheetTransitions_NeverSkipsAgencyApproval(t *testing.T) {
	assert.False(t, models.TimesheetTransitions.CanTransition(models.TimesheetStatusPending, models.TimesheetStatusEmployerApproved))
	assert.True(t, models.TimesheetTransitions.CanTransition(models.TimesheetStatusPending, models.TimesheetStatusAgencyApproved))
	assert.True(t, models.TimesheetTransitions.CanTransition(models.TimesheetStatusAgencyApproved, models.TimesheetStatusEmployerApproved))
	assert.True(t, models.TimesheetTransitions.IsTerminal(models.TimesheetStatusRejected))
	assert.True(t, models.TimesheetTransitions.IsTerminal(models.TimesheetStatusEmployerApproved))
}

func TestOfferStatusIsTerminal(t *testing.T) {
	assert.False(t, models.OfferStatusPending.IsTerminal())
	assert.True(t, models.OfferStatusAccepted.IsTerminal())
	assert.True(t, models.OfferStatusRejected.IsTerminal())
	assert.True(t, models.OfferStatusExpired.IsTerminal())
}

func TestPayoutTransitions_FailedCanRetry(t *testing.T) {
	assert.True(t, models.PayoutTransitions.CanTransition(models.PayoutStatusFailed, models.PayoutStatusProcessing))
	assert.False(t, models.PayoutTransitions.CanTransition(models.PayoutStatusPaid, models.PayoutStatusProcessing))
}
