package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStatus defines the states of a payroll row
type PayrollStatus string

const (
	PayrollStatusPending PayrollStatus = "pending"
	PayrollStatusPaid    PayrollStatus = "paid"
)

// IsValid checks if the PayrollStatus is valid
func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusPending, PayrollStatusPaid:
		return true
	}
	return false
}

// Payroll is one employee's pay for one payout period, computed from the
// same approved timesheets that drove the invoices. net_pay is always
// gross_pay - taxes. The (payout_id, employee_id) pair is the natural key:
// one payroll row per employee per payout.
type Payroll struct {
	BaseModel
	AgencyID   uuid.UUID       `json:"agency_id" gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID       `json:"employee_id" gorm:"type:uuid;not null;uniqueIndex:idx_payrolls_payout_employee"`
	PayoutID   *uuid.UUID      `json:"payout_id" gorm:"type:uuid;uniqueIndex:idx_payrolls_payout_employee;index"`
	TotalHours decimal.Decimal `json:"total_hours" gorm:"type:numeric(8,2);not null;default:0"`
	GrossPay   decimal.Decimal `json:"gross_pay" gorm:"type:numeric(12,2);not null;default:0"`
	Taxes      decimal.Decimal `json:"taxes" gorm:"type:numeric(12,2);not null;default:0"`
	NetPay     decimal.Decimal `json:"net_pay" gorm:"type:numeric(12,2);not null;default:0"`
	Status     PayrollStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for Payroll
func (Payroll) TableName() string {
	return "payrolls"
}
