package workflow

import (
	"context"
	"fmt"
	"strings"
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

// AssignmentService manages the longer-lived placement of a worker with an
// employer: activation, suspension, extension, completion and cascading
// cancellation of future shifts.
type AssignmentService struct {
	store     repository.Store
	bus       events.Bus
	validator *validator.Validate
	now       func() time.Time
	log       *logger.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(store repository.Store, bus events.Bus, validator *validator.Validate) *AssignmentService {
	return &AssignmentService{
		store:     store,
		bus:       bus,
		validator: validator,
		now:       time.Now,
		log:       logger.New(),
	}
}

// WithClock overrides the time source, used by tests
func (s *AssignmentService) WithClock(now func() time.Time) *AssignmentService {
	s.now = now
	return s
}

// CreateAssignmentRequest represents the request to create an assignment
type CreateAssignmentRequest struct {
	ContractID uuid.UUID       `json:"contract_id" validate:"required"`
	AgencyID   uuid.UUID       `json:"agency_id" validate:"required"`
	EmployeeID uuid.UUID       `json:"employee_id" validate:"required"`
	LocationID uuid.UUID       `json:"location_id" validate:"required"`
	Role       string          `json:"role" validate:"required,max=100"`
	StartDate  time.Time       `json:"start_date" validate:"required"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	AgreedRate decimal.Decimal `json:"agreed_rate"`
	PayRate    decimal.Decimal `json:"pay_rate"`
}

// Create creates a pending assignment. The markup fields are derived here
// and fixed until an explicit rate correction.
func (s *AssignmentService) Create(ctx context.Context, req *CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}
	if err := validateRates(req.AgreedRate, req.PayRate); err != nil {
		return nil, err
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, &apperrors.ValidationError{Field: "end_date", Message: "must be after start_date"}
	}

	assignment := &models.Assignment{
		ContractID: req.ContractID,
		AgencyID:   req.AgencyID,
		EmployeeID: req.EmployeeID,
		LocationID: req.LocationID,
		Role:       req.Role,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AgreedRate: req.AgreedRate,
		PayRate:    req.PayRate,
		Status:     models.AssignmentStatusPending,
	}
	assignment.ComputeMarkup()

	if err := s.store.Assignments().Create(assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return assignment, nil
}

// Activate moves the assignment from pending to active
func (s *AssignmentService) Activate(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusActive, events.AssignmentActivated, "agency")
}

// Suspend places an administrative hold; no new shifts may be scheduled
// while suspended
func (s *AssignmentService) Suspend(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusSuspended, events.AssignmentSuspended, "agency")
}

// Reactivate lifts a suspension
func (s *AssignmentService) Reactivate(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusActive, events.AssignmentActivated, "agency")
}

// Complete records the natural end of the assignment
func (s *AssignmentService) Complete(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusCompleted, events.AssignmentCompleted, "agency")
}

func (s *AssignmentService) transition(ctx context.Context, id uuid.UUID, next models.AssignmentStatus, eventName, actorType string) (*models.Assignment, error) {
	var assignment *models.Assignment
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		assignment, err = tx.Assignments().GetForUpdate(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "assignment"}
			}
			return fmt.Errorf("load assignment: %w", err)
		}

		prior, err := models.AssignmentTransitions.Transition(assignment.Status, next)
		if err != nil {
			return err
		}
		if prior == next {
			return nil
		}

		assignment.Status = next
		if err := tx.Assignments().Update(assignment); err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}
		evts = append(evts, events.NewAssignmentStatusChanged(eventName, actorType, assignment))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return assignment, nil
}

// Cancel cancels the assignment and, in the same transaction, force-cancels
// every future shift that has not yet reached a terminal state. A partially
// applied cascade is unacceptable, so the whole flip commits atomically.
func (s *AssignmentService) Cancel(ctx context.Context, id uuid.UUID, note string) (*models.Assignment, error) {
	if note == "" {
		return nil, &apperrors.ValidationError{Field: "note", Message: "cancellation note is required"}
	}

	var assignment *models.Assignment
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		assignment, err = tx.Assignments().GetForUpdate(id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "assignment"}
			}
			return fmt.Errorf("load assignment: %w", err)
		}

		if _, err := models.AssignmentTransitions.Transition(assignment.Status, models.AssignmentStatusCancelled); err != nil {
			return err
		}

		assignment.Status = models.AssignmentStatusCancelled
		assignment.CancellationNote = note
		if err := tx.Assignments().Update(assignment); err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}

		shifts, err := tx.Shifts().FutureNonTerminal(assignment.ID, s.now())
		if err != nil {
			return fmt.Errorf("list future shifts: %w", err)
		}
		for i := range shifts {
			shift := &shifts[i]
			if pending, err := tx.Offers().PendingByShift(shift.ID); err == nil {
				pending.Status = models.OfferStatusExpired
				if err := tx.Offers().Update(pending); err != nil {
					return fmt.Errorf("release candidate lock: %w", err)
				}
			} else if !repository.IsNotFound(err) {
				return fmt.Errorf("check pending offer: %w", err)
			}

			reason := fmt.Sprintf("assignment cancelled: %s", note)
			shift.Status = models.ShiftStatusCancelled
			shift.CancellationReason = appendNote(shift.CancellationReason, reason)
			if err := tx.Shifts().Update(shift); err != nil {
				return fmt.Errorf("cancel shift %s: %w", shift.ID, err)
			}
			evts = append(evts, events.NewShiftCancelled("agency", shift, reason))
		}

		evts = append(evts, events.NewAssignmentStatusChanged(events.AssignmentCancelled, "agency", assignment))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return assignment, nil
}

// ExtendAssignmentRequest represents the request to extend an assignment
type ExtendAssignmentRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	NewEndDate   time.Time `json:"new_end_date" validate:"required"`
	Reason       string    `json:"reason" validate:"required"`
	ExtendedByID uuid.UUID `json:"extended_by_id"`
}

// Extend pushes out the end date of an active assignment. Only valid when an
// end date already exists; the prior end date is kept for audit and a
// distinct "extended" event is emitted instead of a status change.
func (s *AssignmentService) Extend(ctx context.Context, req *ExtendAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}

	var assignment *models.Assignment
	var evts []events.Event
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		assignment, err = tx.Assignments().GetForUpdate(req.AssignmentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "assignment"}
			}
			return fmt.Errorf("load assignment: %w", err)
		}

		if assignment.Status != models.AssignmentStatusActive {
			return &apperrors.InvalidTransitionError{
				Entity: "assignment",
				From:   string(assignment.Status),
				To:     "extended",
			}
		}
		if assignment.EndDate == nil {
			return &apperrors.ValidationError{Field: "end_date", Message: "open-ended assignment cannot be extended"}
		}
		if !req.NewEndDate.After(*assignment.EndDate) {
			return &apperrors.ValidationError{Field: "new_end_date", Message: "must be after the current end date"}
		}

		prior := *assignment.EndDate
		ext := &models.AssignmentExtension{
			AssignmentID: assignment.ID,
			PriorEndDate: &prior,
			NewEndDate:   req.NewEndDate,
			Reason:       req.Reason,
			ExtendedByID: req.ExtendedByID,
		}
		if err := tx.Extensions().Create(ext); err != nil {
			return fmt.Errorf("record extension: %w", err)
		}

		newEnd := req.NewEndDate
		assignment.EndDate = &newEnd
		if err := tx.Assignments().Update(assignment); err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}

		evts = append(evts, events.NewAssignmentExtended("agency", assignment, &prior, req.Reason))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evts...)
	return assignment, nil
}

// CorrectRatesRequest represents the explicit rate-correction operation
type CorrectRatesRequest struct {
	AssignmentID uuid.UUID       `json:"assignment_id" validate:"required"`
	AgreedRate   decimal.Decimal `json:"agreed_rate"`
	PayRate      decimal.Decimal `json:"pay_rate"`
}

// CorrectRates is the only path that recomputes the financial fields after
// creation
func (s *AssignmentService) CorrectRates(ctx context.Context, req *CorrectRatesRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}
	if err := validateRates(req.AgreedRate, req.PayRate); err != nil {
		return nil, err
	}

	var assignment *models.Assignment
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		assignment, err = tx.Assignments().GetForUpdate(req.AssignmentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &apperrors.NotFoundError{Entity: "assignment"}
			}
			return fmt.Errorf("load assignment: %w", err)
		}

		assignment.AgreedRate = req.AgreedRate
		assignment.PayRate = req.PayRate
		assignment.ComputeMarkup()
		return tx.Assignments().Update(assignment)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func validateRates(agreed, pay decimal.Decimal) error {
	if agreed.IsNegative() || pay.IsNegative() {
		return &apperrors.ValidationError{Field: "rates", Message: "rates must not be negative"}
	}
	if agreed.LessThan(pay) {
		return &apperrors.ValidationError{Field: "agreed_rate", Message: "must be greater than or equal to pay_rate"}
	}
	return nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return strings.TrimRight(existing, "; ") + "; " + note
}

func (s *AssignmentService) publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.log.WithField("event", evt.Name).WithError(err).Error("publish event failed")
		}
	}
}
