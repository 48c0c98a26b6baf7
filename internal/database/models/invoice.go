package models

import (
	"time"

	"staffing-platform-backend/internal/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes the two legs of the commission split
type InvoiceType string

const (
	InvoiceTypeEmployerToAgency InvoiceType = "employer_to_agency"
	InvoiceTypeAgencyToPlatform InvoiceType = "agency_to_platform"
)

// IsValid checks if the InvoiceType is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeEmployerToAgency, InvoiceTypeAgencyToPlatform:
		return true
	}
	return false
}

// InvoiceStatus defines the lifecycle states of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the InvoiceStatus is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// InvoiceTransitions is the transition graph for invoices
var InvoiceTransitions = statemachine.New("invoice", map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusPending: {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusPaid, InvoiceStatusCancelled},
})

// PartyType identifies the kind of party an invoice references
type PartyType string

const (
	PartyTypeEmployer PartyType = "employer"
	PartyTypeAgency   PartyType = "agency"
	PartyTypePlatform PartyType = "platform"
)

// Invoice is created exclusively by the settlement pipeline and is immutable
// except for status. total_amount = subtotal + tax_amount always holds.
type Invoice struct {
	BaseModel
	Type     InvoiceType `json:"type" gorm:"type:varchar(30);not null;index"`
	FromType PartyType   `json:"from_type" gorm:"type:varchar(20);not null"`
	FromID   uuid.UUID   `json:"from_id" gorm:"type:uuid;not null"`
	ToType   PartyType   `json:"to_type" gorm:"type:varchar(20);not null"`
	ToID     uuid.UUID   `json:"to_id" gorm:"type:uuid;not null"`
	// TimesheetID is the natural key for employer_to_agency invoices: at
	// most one invoice per timesheet.
	TimesheetID *uuid.UUID `json:"timesheet_id" gorm:"type:uuid;uniqueIndex"`
	// SourceInvoiceID is the natural key for agency_to_platform commission
	// invoices: at most one per paid source invoice.
	SourceInvoiceID *uuid.UUID      `json:"source_invoice_id" gorm:"type:uuid;uniqueIndex"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status          InvoiceStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	DueDate         time.Time       `json:"due_date" gorm:"not null"`
	PaidAt          *time.Time      `json:"paid_at"`
}

// TableName returns the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}
