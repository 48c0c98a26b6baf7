package repository

import (
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutRepository handles database operations for payouts
type PayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// Create creates a new payout
func (r *PayoutRepository) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

// GetByID retrieves a payout by ID
func (r *PayoutRepository) GetByID(id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.First(&payout, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// GetForUpdate retrieves a payout under a row lock
func (r *PayoutRepository) GetForUpdate(id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payout, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// Update updates a payout
func (r *PayoutRepository) Update(payout *models.Payout) error {
	return r.db.Save(payout).Error
}

// GetByAgencyAndPeriod retrieves the agency's still-processing payout for a
// period, used to aggregate paid invoices into one payout per period
func (r *PayoutRepository) GetByAgencyAndPeriod(agencyID uuid.UUID, periodStart time.Time) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.
		Where("agency_id = ? AND period_start = ? AND status = ?",
			agencyID, periodStart, models.PayoutStatusProcessing).
		First(&payout).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// PayrollRepository handles database operations for payroll rows
type PayrollRepository struct {
	db *gorm.DB
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// Create creates a new payroll row
func (r *PayrollRepository) Create(payroll *models.Payroll) error {
	return r.db.Create(payroll).Error
}

// Update updates a payroll row
func (r *PayrollRepository) Update(payroll *models.Payroll) error {
	return r.db.Save(payroll).Error
}

// GetByPayoutAndEmployee retrieves the payroll row for the natural key
// (payout, employee)
func (r *PayrollRepository) GetByPayoutAndEmployee(payoutID, employeeID uuid.UUID) (*models.Payroll, error) {
	var payroll models.Payroll
	err := r.db.Where("payout_id = ? AND employee_id = ?", payoutID, employeeID).First(&payroll).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

// ListByPayout retrieves all payroll rows of a payout
func (r *PayrollRepository) ListByPayout(payoutID uuid.UUID) ([]models.Payroll, error) {
	var payrolls []models.Payroll
	err := r.db.Where("payout_id = ?", payoutID).Find(&payrolls).Error
	return payrolls, err
}
