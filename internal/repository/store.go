package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormStore is the gorm-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a store over a gorm connection
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Shifts returns the shift repository
func (s *GormStore) Shifts() ShiftRepositoryInterface {
	return NewShiftRepository(s.db)
}

// Offers returns the shift offer repository
func (s *GormStore) Offers() ShiftOfferRepositoryInterface {
	return NewShiftOfferRepository(s.db)
}

// Assignments returns the assignment repository
func (s *GormStore) Assignments() AssignmentRepositoryInterface {
	return NewAssignmentRepository(s.db)
}

// Extensions returns the assignment extension repository
func (s *GormStore) Extensions() AssignmentExtensionRepositoryInterface {
	return NewAssignmentExtensionRepository(s.db)
}

// Timesheets returns the timesheet repository
func (s *GormStore) Timesheets() TimesheetRepositoryInterface {
	return NewTimesheetRepository(s.db)
}

// Invoices returns the invoice repository
func (s *GormStore) Invoices() InvoiceRepositoryInterface {
	return NewInvoiceRepository(s.db)
}

// Payouts returns the payout repository
func (s *GormStore) Payouts() PayoutRepositoryInterface {
	return NewPayoutRepository(s.db)
}

// Payrolls returns the payroll repository
func (s *GormStore) Payrolls() PayrollRepositoryInterface {
	return NewPayrollRepository(s.db)
}

// Parties returns the party repository
func (s *GormStore) Parties() PartyRepositoryInterface {
	return NewPartyRepository(s.db)
}

// AuditLogs returns the audit log repository
func (s *GormStore) AuditLogs() AuditLogRepositoryInterface {
	return NewAuditLogRepository(s.db)
}

// WebhookSubscriptions returns the webhook subscription repository
func (s *GormStore) WebhookSubscriptions() WebhookSubscriptionRepositoryInterface {
	return NewWebhookSubscriptionRepository(s.db)
}

// Transaction runs fn inside one database transaction. Row locks taken via
// GetForUpdate are held until commit, serializing writers per entity.
func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsNotFound reports whether err is a gorm record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The candidate lock and the settlement natural keys rely on
// unique indexes, so a racing insert surfaces here.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
