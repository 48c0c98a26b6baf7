package repository

import (
	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository handles database operations for invoices
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create creates a new invoice. Unique indexes on timesheet_id and
// source_invoice_id are the settlement natural keys: one invoice per
// timesheet, one commission invoice per paid source invoice.
func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetForUpdate retrieves an invoice under a row lock
func (r *InvoiceRepository) GetForUpdate(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update updates an invoice
func (r *InvoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

// GetByTimesheetID retrieves the invoice generated for a timesheet
func (r *InvoiceRepository) GetByTimesheetID(timesheetID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Where("timesheet_id = ?", timesheetID).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetBySourceInvoiceID retrieves the commission invoice mirrored from a paid
// source invoice
func (r *InvoiceRepository) GetBySourceInvoiceID(sourceInvoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Where("source_invoice_id = ?", sourceInvoiceID).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
