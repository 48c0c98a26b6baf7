package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Agency represents a staffing agency placing employees with employers
type Agency struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	// CommissionRate is the platform's cut of a paid invoice, as a fraction
	// (0.05 = 5%).
	CommissionRate decimal.Decimal `json:"commission_rate" gorm:"type:numeric(6,4);not null;default:0"`
}

// TableName returns the table name for Agency
func (Agency) TableName() string {
	return "agencies"
}

// Employer represents the business that requests and hosts shifts
type Employer struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	// Jurisdiction drives the tax-rate lookup for invoices billed to this
	// employer (e.g. "NL", "DE"). Empty means unknown, taxed at zero.
	Jurisdiction string `json:"jurisdiction" gorm:"size:10"`
}

func (Employer) TableName() string {
	return "employers"
}

// Employee represents a worker on an agency's roster
type Employee struct {
	BaseModel
	AgencyID uuid.UUID `json:"agency_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Email    string    `json:"email" gorm:"size:150" validate:"omitempty,email"`
}

func (Employee) TableName() string {
	return "employees"
}

// Location represents a work site belonging to an employer
type Location struct {
	BaseModel
	EmployerID uuid.UUID `json:"employer_id" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Address    string    `json:"address" gorm:"size:200"`
}

func (Location) TableName() string {
	return "locations"
}
