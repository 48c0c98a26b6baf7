package repository

import (
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
)

// ShiftRepositoryInterface defines the interface for shift repository operations
type ShiftRepositoryInterface interface {
	Create(shift *models.Shift) error
	GetByID(id uuid.UUID) (*models.Shift, error)
	GetForUpdate(id uuid.UUID) (*models.Shift, error)
	Update(shift *models.Shift) error
	FutureNonTerminal(assignmentID uuid.UUID, after time.Time) ([]models.Shift, error)
	ListByAssignment(assignmentID uuid.UUID, limit, offset int) ([]models.Shift, int64, error)
}

// ShiftOfferRepositoryInterface defines the interface for shift offer repository operations
type ShiftOfferRepositoryInterface interface {
	Create(offer *models.ShiftOffer) error
	GetByID(id uuid.UUID) (*models.ShiftOffer, error)
	GetForUpdate(id uuid.UUID) (*models.ShiftOffer, error)
	Update(offer *models.ShiftOffer) error
	PendingByShift(shiftID uuid.UUID) (*models.ShiftOffer, error)
	AcceptedByShift(shiftID uuid.UUID) (*models.ShiftOffer, error)
	ListExpiredPending(now time.Time, limit int) ([]models.ShiftOffer, error)
}

// AssignmentRepositoryInterface defines the interface for assignment repository operations
type AssignmentRepositoryInterface interface {
	Create(assignment *models.Assignment) error
	GetByID(id uuid.UUID) (*models.Assignment, error)
	GetForUpdate(id uuid.UUID) (*models.Assignment, error)
	Update(assignment *models.Assignment) error
}

// AssignmentExtensionRepositoryInterface defines the interface for extension audit records
type AssignmentExtensionRepositoryInterface interface {
	Create(ext *models.AssignmentExtension) error
	ListByAssignment(assignmentID uuid.UUID) ([]models.AssignmentExtension, error)
}

// TimesheetRepositoryInterface defines the interface for timesheet repository operations
type TimesheetRepositoryInterface interface {
	Create(timesheet *models.Timesheet) error
	GetByID(id uuid.UUID) (*models.Timesheet, error)
	GetForUpdate(id uuid.UUID) (*models.Timesheet, error)
	GetByShiftID(shiftID uuid.UUID) (*models.Timesheet, error)
	Update(timesheet *models.Timesheet) error
}

// InvoiceRepositoryInterface defines the interface for invoice repository operations
type InvoiceRepositoryInterface interface {
	Create(invoice *models.Invoice) error
	GetByID(id uuid.UUID) (*models.Invoice, error)
	GetForUpdate(id uuid.UUID) (*models.Invoice, error)
	Update(invoice *models.Invoice) error
	GetByTimesheetID(timesheetID uuid.UUID) (*models.Invoice, error)
	GetBySourceInvoiceID(sourceInvoiceID uuid.UUID) (*models.Invoice, error)
}

// PayoutRepositoryInterface defines the interface for payout repository operations
type PayoutRepositoryInterface interface {
	Create(payout *models.Payout) error
	GetByID(id uuid.UUID) (*models.Payout, error)
	GetForUpdate(id uuid.UUID) (*models.Payout, error)
	Update(payout *models.Payout) error
	GetByAgencyAndPeriod(agencyID uuid.UUID, periodStart time.Time) (*models.Payout, error)
}

// PayrollRepositoryInterface defines the interface for payroll repository operations
type PayrollRepositoryInterface interface {
	Create(payroll *models.Payroll) error
	Update(payroll *models.Payroll) error
	GetByPayoutAndEmployee(payoutID, employeeID uuid.UUID) (*models.Payroll, error)
	ListByPayout(payoutID uuid.UUID) ([]models.Payroll, error)
}

// PartyRepositoryInterface defines lookups for the reference entities the
// workflow cross-references by id
type PartyRepositoryInterface interface {
	CreateAgency(agency *models.Agency) error
	GetAgency(id uuid.UUID) (*models.Agency, error)
	CreateEmployer(employer *models.Employer) error
	GetEmployer(id uuid.UUID) (*models.Employer, error)
	CreateEmployee(employee *models.Employee) error
	GetEmployee(id uuid.UUID) (*models.Employee, error)
	CreateLocation(location *models.Location) error
	GetLocation(id uuid.UUID) (*models.Location, error)
}

// AuditLogRepositoryInterface defines the interface for audit log operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	ListByTarget(targetID uuid.UUID, limit, offset int) ([]models.AuditLog, int64, error)
}

// WebhookSubscriptionRepositoryInterface defines the interface for webhook subscriptions
type WebhookSubscriptionRepositoryInterface interface {
	Create(sub *models.WebhookSubscription) error
	Delete(id uuid.UUID) error
	ListForEvent(event string) ([]models.WebhookSubscription, error)
	ListAll() ([]models.WebhookSubscription, error)
}

// Store aggregates the repositories and scopes them to one transaction.
// Transaction runs fn against a store bound to a single database
// transaction; workflow operations use it so a status flip and its cascade
// commit atomically.
type Store interface {
	Shifts() ShiftRepositoryInterface
	Offers() ShiftOfferRepositoryInterface
	Assignments() AssignmentRepositoryInterface
	Extensions() AssignmentExtensionRepositoryInterface
	Timesheets() TimesheetRepositoryInterface
	Invoices() InvoiceRepositoryInterface
	Payouts() PayoutRepositoryInterface
	Payrolls() PayrollRepositoryInterface
	Parties() PartyRepositoryInterface
	AuditLogs() AuditLogRepositoryInterface
	WebhookSubscriptions() WebhookSubscriptionRepositoryInterface
	Transaction(fn func(Store) error) error
}
