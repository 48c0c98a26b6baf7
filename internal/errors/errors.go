package errors

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidTransitionError represents a state-graph violation. It is always
// rejected and never retried.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: invalid transition from %s to %s", e.Entity, e.From, e.To)
}

// Is enables errors.Is() comparison for InvalidTransitionError
func (e *InvalidTransitionError) Is(target error) bool {
	_, ok := target.(*InvalidTransitionError)
	return ok
}

// AlreadyAssignedError is returned when a second accept races an
// already-assigned shift. The caller may retry with fresh state.
type AlreadyAssignedError struct {
	ShiftID uuid.UUID
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("shift %s is already assigned", e.ShiftID)
}

func (e *AlreadyAssignedError) Is(target error) bool {
	_, ok := target.(*AlreadyAssignedError)
	return ok
}

// AlreadyLockedError is returned when a shift already holds a pending offer
// (the candidate lock). The caller may retry once the offer resolves.
type AlreadyLockedError struct {
	ShiftID uuid.UUID
}

func (e *AlreadyLockedError) Error() string {
	return fmt.Sprintf("shift %s already has a pending offer", e.ShiftID)
}

func (e *AlreadyLockedError) Is(target error) bool {
	_, ok := target.(*AlreadyLockedError)
	return ok
}

// ValidationError represents malformed input rejected to the caller
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ExternalDependencyError wraps a failure of an external collaborator (tax
// lookup, payment processor, webhook delivery). Retried with backoff by the
// queue; surfaced as a failed terminal status once attempts are exhausted.
type ExternalDependencyError struct {
	Dependency string
	Err        error
}

func (e *ExternalDependencyError) Error() string {
	return fmt.Sprintf("external dependency %s failed: %v", e.Dependency, e.Err)
}

func (e *ExternalDependencyError) Unwrap() error {
	return e.Err
}

func (e *ExternalDependencyError) Is(target error) bool {
	_, ok := target.(*ExternalDependencyError)
	return ok
}
