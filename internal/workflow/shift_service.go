// Package workflow implements the shift, assignment and timesheet state
// machines as short synchronous transactions. Each operation validates the
// transition, persists the new state under a row lock and, after commit,
// publishes the resulting domain events; everything downstream (settlement,
// notifications, webhooks) runs as queued tasks off the bus.
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
	"github.com/shopspring/decimal"
)

// ShiftService drives a shift through request -> offer -> assignment ->
// completion, enforcing the single-active-offer rule
type ShiftService struct {
	store     repository.Store
	bus       events.Bus
	validator *validator.Validate
	offerTTL  time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewShiftService creates a new shift service
func NewShiftService(store repository.Store, bus events.Bus, validator *validator.Validate, offerTTL time.Duration) *ShiftService {
	return &ShiftService{
		store:     store,
		bus:       bus,
		validator: validator,
		offerTTL:  offerTTL,
		now:       time.Now,
		log:       logger.New(),
	}
}

// WithClock overrides the time source, used by tests and the sweep
func (s *ShiftService) WithClock(now func() time.Time) *ShiftService {
	s.now = now
	return s
}

// RequestShiftRequest represents the request to create a shift
type RequestShiftRequest struct {
	AssignmentID *uuid.UUID      `json:"assignment_id,omitempty"`
	LocationID   uuid.UUID       `json:"location_id" validate:"required"`
	StartTime    time.Time       `json:"start_time" validate:"required"`
	EndTime      time.Time       `json:"end_time" validate:"required"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
}

// Request creates a new open shift. Shifts under a suspended assignment
// cannot be scheduled.
func (s *ShiftService) Request(ctx context.Context, req *RequestShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, &apperrors.ValidationError{Field: "end_time", Message: "must be after start_time"}
	}
	if req.HourlyRate.IsNegative() {
		return nil, &apperrors.ValidationError{Field: "hourly_rate", Message: "must not be negative"}
	}

	if req.AssignmentID != nil {
		assignment, err := s.store.Assignments().GetByID(*req.AssignmentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, &apperrors.NotFoundError{Entity: "assignment"}
			}
			return nil, fmt.Errorf("verify assignment: %w", err)
		}
		if assignment.Status != models.AssignmentStatusActive {
			return nil, &apperrors.ValidationError{
				Field:   "assignment_id",
				Message: fmt.Sprintf("assignment is %s, shifts can only be scheduled while active", assignment.Status),
			}
		}
	}

	shift := &models.Shift{
		AssignmentID: req.AssignmentID,
		LocationID:   req.LocationID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		HourlyRate:   req.HourlyRate,
		Status:       models.ShiftStatusOpen,
	}
	if err := s.store.Shifts().Create(shift); err != nil {
		return nil, fmt.Errorf("create shift: %w", err)
	}

	s.publish(ctx, events.NewShiftRequested("employer", shift))
	return shift, nil
}

// OfferShiftRequest represents the request to offer a shift to an employee
type OfferShiftRequest struct {
	ShiftID     uuid.UUID `json:"shift_id" validate:"required"`
	EmployeeID  uuid.UUID `json:"employee_id" validate:"required"`
	OfferedByID uuid.UUID `json:"offered_by_id" validate:"required"`
}

// Offer creates a pending offer and moves the shift to offered. While the
// offer is pending the shift is locked against further offers; the partial
// unique index backs the check against racing writers.
func (s *ShiftService) Offer(ctx context.Context, req *OfferShiftRequest) (*models.ShiftOffer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}

	var offer *models.ShiftOffer
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		shift, err := tx.Shifts().GetForUpdate(req.ShiftID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "shift"}
			}
			return fmt.Errorf("load shift: %w", err)
		}

		if _, err := tx.Offers().PendingByShift(shift.ID); err == nil {
			return &apperrors.AlreadyLockedError{ShiftID: shift.ID}
		} else if !repository.IsNotFound(err) {
			return fmt.Errorf("check pending offer: %w", err)
		}

		if _, err := models.ShiftTransitions.Transition(shift.Status, models.ShiftStatusOffered); err != nil {
			return err
		}

		offer = &models.ShiftOffer{
			ShiftID:     shift.ID,
			EmployeeID:  req.EmployeeID,
			OfferedByID: req.OfferedByID,
			Status:      models.OfferStatusPending,
			ExpiresAt:   s.now().Add(s.offerTTL),
		}
		if err := tx.Offers().Create(offer); err != nil {
			if repository.IsUniqueViolation(err) {
				return &apperrors.AlreadyLockedError{ShiftID: shift.ID}
			}
			return fmt.Errorf("create offer: %w", err)
		}

		shift.Status = models.ShiftStatusOffered
		if err := tx.Shifts().Update(shift); err != nil {
			return fmt.Errorf("update shift: %w", err)
		}

		evts = append(evts,
			events.NewShiftOffered("agency", shift, offer),
			events.NewOfferSent("agency", offer),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return offer, nil
}

// Accept assigns the shift to the offered employee. Accepting an already
// accepted offer is a no-op; a second accept racing an assigned shift fails
// with AlreadyAssignedError. A pending offer past its expiry is expired
// here and the shift reopened, without waiting for the sweep.
func (s *ShiftService) Accept(ctx context.Context, offerID uuid.UUID) (*models.ShiftOffer, error) {
	var offer *models.ShiftOffer
	var evts []events.Event
	var expired *apperrors.InvalidTransitionError
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		offer, err = tx.Offers().GetForUpdate(offerID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "shift offer"}
			}
			return fmt.Errorf("load offer: %w", err)
		}
		if offer.Status == models.OfferStatusAccepted {
			// Exactly-once: the first accept already won
			return nil
		}

		shift, err := tx.Shifts().GetForUpdate(offer.ShiftID)
		if err != nil {
			return fmt.Errorf("load shift: %w", err)
		}
		if shift.Status == models.ShiftStatusAssigned {
			return &apperrors.AlreadyAssignedError{ShiftID: shift.ID}
		}

		if offer.Status == models.OfferStatusPending && s.now().After(offer.ExpiresAt) {
			offer.Status = models.OfferStatusExpired
			if err := tx.Offers().Update(offer); err != nil {
				return fmt.Errorf("expire offer: %w", err)
			}
			if shift.Status == models.ShiftStatusOffered {
				shift.Status = models.ShiftStatusOpen
				if err := tx.Shifts().Update(shift); err != nil {
					return fmt.Errorf("reopen shift: %w", err)
				}
			}
			evts = append(evts, events.NewOfferExpired(offer))
			// Commit the expiry, then report the rejected accept
			expired = &apperrors.InvalidTransitionError{
				Entity: "shift_offer",
				From:   string(models.OfferStatusExpired),
				To:     string(models.OfferStatusAccepted),
			}
			return nil
		}

		if _, err := models.OfferTransitions.Transition(offer.Status, models.OfferStatusAccepted); err != nil {
			return err
		}
		if _, err := models.ShiftTransitions.Transition(shift.Status, models.ShiftStatusAssigned); err != nil {
			return err
		}

		offer.Status = models.OfferStatusAccepted
		if err := tx.Offers().Update(offer); err != nil {
			return fmt.Errorf("update offer: %w", err)
		}
		shift.Status = models.ShiftStatusAssigned
		if err := tx.Shifts().Update(shift); err != nil {
			return fmt.Errorf("update shift: %w", err)
		}

		evts = append(evts,
			events.NewOfferAccepted("employee", offer),
			events.NewShiftAssigned("employee", shift, offer),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	if expired != nil {
		return nil, expired
	}
	return offer, nil
}

// Reject declines the offer and reopens the shift for other candidates
func (s *ShiftService) Reject(ctx context.Context, offerID uuid.UUID) (*models.ShiftOffer, error) {
	var offer *models.ShiftOffer
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		offer, err = tx.Offers().GetForUpdate(offerID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "shift offer"}
			}
			return fmt.Errorf("load offer: %w", err)
		}

		if _, err := models.OfferTransitions.Transition(offer.Status, models.OfferStatusRejected); err != nil {
			return err
		}

		shift, err := tx.Shifts().GetForUpdate(offer.ShiftID)
		if err != nil {
			return fmt.Errorf("load shift: %w", err)
		}
		if _, err := models.ShiftTransitions.Transition(shift.Status, models.ShiftStatusOpen); err != nil {
			return err
		}

		offer.Status = models.OfferStatusRejected
		if err := tx.Offers().Update(offer); err != nil {
			return fmt.Errorf("update offer: %w", err)
		}
		shift.Status = models.ShiftStatusOpen
		if err := tx.Shifts().Update(shift); err != nil {
			return fmt.Errorf("update shift: %w", err)
		}

		evts = append(evts, events.NewOfferRejected("employee", offer))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return offer, nil
}

// ClockIn starts the shift and opens its timesheet draft
func (s *ShiftService) ClockIn(ctx context.Context, shiftID uuid.UUID, at time.Time) (*models.Shift, error) {
	var shift *models.Shift
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		shift, err = tx.Shifts().GetForUpdate(shiftID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "shift"}
			}
			return fmt.Errorf("load shift: %w", err)
		}

		if _, err := models.ShiftTransitions.Transition(shift.Status, models.ShiftStatusInProgress); err != nil {
			return err
		}

		timesheet, err := s.findOrCreateTimesheet(tx, shift)
		if err != nil {
			return err
		}
		if timesheet.ClockIn == nil {
			timesheet.ClockIn = &at
			if err := tx.Timesheets().Update(timesheet); err != nil {
				return fmt.Errorf("update timesheet: %w", err)
			}
		}

		shift.Status = models.ShiftStatusInProgress
		return tx.Shifts().Update(shift)
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// ClockOut completes the shift. Completion creates exactly one timesheet per
// shift: a re-invocation finds the existing row rather than duplicating.
func (s *ShiftService) ClockOut(ctx context.Context, shiftID uuid.UUID, at time.Time, breakMinutes int) (*models.Timesheet, error) {
	if breakMinutes < 0 {
		return nil, &apperrors.ValidationError{Field: "break_minutes", Message: "must not be negative"}
	}

	var timesheet *models.Timesheet
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		shift, err := tx.Shifts().GetForUpdate(shiftID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "shift"}
			}
			return fmt.Errorf("load shift: %w", err)
		}

		if _, err := models.ShiftTransitions.Transition(shift.Status, models.ShiftStatusCompleted); err != nil {
			return err
		}

		timesheet, err = s.findOrCreateTimesheet(tx, shift)
		if err != nil {
			return err
		}
		if timesheet.ClockOut == nil {
			timesheet.ClockOut = &at
			timesheet.BreakMinutes = breakMinutes
			timesheet.ComputeHours()
			if err := tx.Timesheets().Update(timesheet); err != nil {
				return fmt.Errorf("update timesheet: %w", err)
			}
			evts = append(evts, events.NewTimesheetSubmitted(timesheet))
		}

		if shift.Status != models.ShiftStatusCompleted {
			shift.Status = models.ShiftStatusCompleted
			if err := tx.Shifts().Update(shift); err != nil {
				return fmt.Errorf("update shift: %w", err)
			}
			evts = append(evts, events.NewShiftCompleted("employee", shift, timesheet))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return timesheet, nil
}

// Cancel cancels the shift with a human-readable reason and releases the
// candidate lock when an offer is still pending
func (s *ShiftService) Cancel(ctx context.Context, shiftID uuid.UUID, reason string) (*models.Shift, error) {
	if reason == "" {
		return nil, &apperrors.ValidationError{Field: "reason", Message: "cancellation reason is required"}
	}

	var shift *models.Shift
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		shift, err = tx.Shifts().GetForUpdate(shiftID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "shift"}
			}
			return fmt.Errorf("load shift: %w", err)
		}

		if _, err := models.ShiftTransitions.Transition(shift.Status, models.ShiftStatusCancelled); err != nil {
			return err
		}

		if pending, err := tx.Offers().PendingByShift(shift.ID); err == nil {
			pending.Status = models.OfferStatusExpired
			if err := tx.Offers().Update(pending); err != nil {
				return fmt.Errorf("release candidate lock: %w", err)
			}
			evts = append(evts, events.NewOfferExpired(pending))
		} else if !repository.IsNotFound(err) {
			return fmt.Errorf("check pending offer: %w", err)
		}

		shift.Status = models.ShiftStatusCancelled
		shift.CancellationReason = reason
		if err := tx.Shifts().Update(shift); err != nil {
			return fmt.Errorf("update shift: %w", err)
		}

		evts = append(evts, events.NewShiftCancelled("employer", shift, reason))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return shift, nil
}

// findOrCreateTimesheet returns the shift's single timesheet, creating it on
// first use. The unique index on shift_id resolves creation races.
func (s *ShiftService) findOrCreateTimesheet(tx repository.Store, shift *models.Shift) (*models.Timesheet, error) {
	existing, err := tx.Timesheets().GetByShiftID(shift.ID)
	if err == nil {
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("load timesheet: %w", err)
	}

	employeeID, err := s.assignedEmployee(tx, shift)
	if err != nil {
		return nil, err
	}
	timesheet := &models.Timesheet{
		ShiftID:    shift.ID,
		EmployeeID: employeeID,
		Status:     models.TimesheetStatusPending,
	}
	if err := tx.Timesheets().Create(timesheet); err != nil {
		if repository.IsUniqueViolation(err) {
			return tx.Timesheets().GetByShiftID(shift.ID)
		}
		return nil, fmt.Errorf("create timesheet: %w", err)
	}
	return timesheet, nil
}

// assignedEmployee resolves the worker on the shift via its accepted offer,
// falling back to the assignment's employee
func (s *ShiftService) assignedEmployee(tx repository.Store, shift *models.Shift) (uuid.UUID, error) {
	accepted, err := tx.Offers().AcceptedByShift(shift.ID)
	if err == nil {
		return accepted.EmployeeID, nil
	}
	if !repository.IsNotFound(err) {
		return uuid.Nil, fmt.Errorf("load accepted offer: %w", err)
	}

	if shift.AssignmentID != nil {
		assignment, err := tx.Assignments().GetByID(*shift.AssignmentID)
		if err == nil {
			return assignment.EmployeeID, nil
		}
		if !repository.IsNotFound(err) {
			return uuid.Nil, fmt.Errorf("load assignment: %w", err)
		}
	}
	return uuid.Nil, &apperrors.ValidationError{
		Field:   "shift_id",
		Message: "no accepted offer or assignment to resolve the employee from",
	}
}

func (s *ShiftService) publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.log.WithField("event", evt.Name).WithError(err).Error("publish event failed")
		}
	}
}
