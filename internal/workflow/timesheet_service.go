package workflow

import (
	"context"
	"fmt"
	"time"

	"staffing-platform-backend/internal/database/models"
	apperrors "staffing-platform-backend/internal/errors"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TimesheetService runs the dual-approval chain: agency approval first, then
// employer approval, which alone triggers billing and settlement.
type TimesheetService struct {
	store     repository.Store
	bus       events.Bus
	validator *validator.Validate
	log       *logger.Logger
}

// NewTimesheetService creates a new timesheet service
func NewTimesheetService(store repository.Store, bus events.Bus, validator *validator.Validate) *TimesheetService {
	return &TimesheetService{
		store:     store,
		bus:       bus,
		validator: validator,
		log:       logger.New(),
	}
}

// CorrectTimesheetRequest represents a clock/break correction while the
// timesheet is still pending
type CorrectTimesheetRequest struct {
	TimesheetID  uuid.UUID  `json:"timesheet_id" validate:"required"`
	ClockIn      *time.Time `json:"clock_in,omitempty"`
	ClockOut     *time.Time `json:"clock_out,omitempty"`
	BreakMinutes *int       `json:"break_minutes,omitempty" validate:"omitempty,min=0"`
}

// Correct adjusts the recorded times and recomputes hours. Only a pending
// timesheet can be corrected; approvals freeze the hours.
func (s *TimesheetService) Correct(ctx context.Context, req *CorrectTimesheetRequest) (*models.Timesheet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}

	var timesheet *models.Timesheet
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		timesheet, err = tx.Timesheets().GetForUpdate(req.TimesheetID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "timesheet"}
			}
			return fmt.Errorf("load timesheet: %w", err)
		}

		if timesheet.Status != models.TimesheetStatusPending {
			return &apperrors.InvalidTransitionError{
				Entity: "timesheet",
				From:   string(timesheet.Status),
				To:     "corrected",
			}
		}

		if req.ClockIn != nil {
			timesheet.ClockIn = req.ClockIn
		}
		if req.ClockOut != nil {
			timesheet.ClockOut = req.ClockOut
		}
		if req.BreakMinutes != nil {
			timesheet.BreakMinutes = *req.BreakMinutes
		}
		timesheet.ComputeHours()
		return tx.Timesheets().Update(timesheet)
	})
	if err != nil {
		return nil, err
	}
	return timesheet, nil
}

// ApproveByAgency is the first approval step. Re-approving an already
// approved timesheet is a no-op returning the existing state.
func (s *TimesheetService) ApproveByAgency(ctx context.Context, id uuid.UUID) (*models.Timesheet, error) {
	var timesheet *models.Timesheet
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		timesheet, err = tx.Timesheets().GetForUpdate(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "timesheet"}
			}
			return fmt.Errorf("load timesheet: %w", err)
		}

		switch timesheet.Status {
		case models.TimesheetStatusAgencyApproved, models.TimesheetStatusEmployerApproved:
			// Idempotent re-approval
			return nil
		}

		if _, err := models.TimesheetTransitions.Transition(timesheet.Status, models.TimesheetStatusAgencyApproved); err != nil {
			return err
		}

		timesheet.Status = models.TimesheetStatusAgencyApproved
		if err := tx.Timesheets().Update(timesheet); err != nil {
			return fmt.Errorf("update timesheet: %w", err)
		}
		evts = append(evts, events.NewTimesheetAgencyApproved(timesheet))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return timesheet, nil
}

// ApproveByEmployer is the second and final approval step. It marks the
// originating shift billed and publishes the event that is the sole
// settlement trigger. Re-approval is a no-op and publishes nothing, so no
// duplicate invoice can result.
func (s *TimesheetService) ApproveByEmployer(ctx context.Context, id uuid.UUID) (*models.Timesheet, error) {
	var timesheet *models.Timesheet
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		timesheet, err = tx.Timesheets().GetForUpdate(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "timesheet"}
			}
			return fmt.Errorf("load timesheet: %w", err)
		}

		if timesheet.Status == models.TimesheetStatusEmployerApproved {
			// Idempotent re-approval
			return nil
		}

		if _, err := models.TimesheetTransitions.Transition(timesheet.Status, models.TimesheetStatusEmployerApproved); err != nil {
			return err
		}

		timesheet.Status = models.TimesheetStatusEmployerApproved
		if err := tx.Timesheets().Update(timesheet); err != nil {
			return fmt.Errorf("update timesheet: %w", err)
		}

		shift, err := tx.Shifts().GetForUpdate(timesheet.ShiftID)
		if err != nil {
			return fmt.Errorf("load shift: %w", err)
		}
		if !shift.Billed {
			shift.Billed = true
			if err := tx.Shifts().Update(shift); err != nil {
				return fmt.Errorf("mark shift billed: %w", err)
			}
		}

		evts = append(evts, events.NewTimesheetEmployerApproved(timesheet))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return timesheet, nil
}

// Reject terminates the approval chain from pending or agency_approved. A
// reason is required.
func (s *TimesheetService) Reject(ctx context.Context, id uuid.UUID, actorType, reason string) (*models.Timesheet, error) {
	if reason == "" {
		return nil, &apperrors.ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	var timesheet *models.Timesheet
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		timesheet, err = tx.Timesheets().GetForUpdate(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "timesheet"}
			}
			return fmt.Errorf("load timesheet: %w", err)
		}

		if _, err := models.TimesheetTransitions.Transition(timesheet.Status, models.TimesheetStatusRejected); err != nil {
			return err
		}

		timesheet.Status = models.TimesheetStatusRejected
		timesheet.RejectionReason = reason
		if err := tx.Timesheets().Update(timesheet); err != nil {
			return fmt.Errorf("update timesheet: %w", err)
		}
		evts = append(evts, events.NewTimesheetRejected(actorType, timesheet, reason))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return timesheet, nil
}

func (s *TimesheetService) publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.log.WithField("event", evt.Name).WithError(err).Error("publish event failed")
		}
	}
}
