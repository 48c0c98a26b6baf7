package testutils

import (
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgencyFactory provides methods to create test Agency data
type AgencyFactory struct{}

// NewAgencyFactory creates a new AgencyFactory
func NewAgencyFactory() *AgencyFactory {
	return &AgencyFactory{}
}

// Create creates a test Agency with default values
func (f *AgencyFactory) Create() *models.Agency {
	return &models.Agency{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:           "Test Agency",
		CommissionRate: decimal.NewFromFloat(0.05),
	}
}

// WithCommissionRate sets a custom commission rate
func (f *AgencyFactory) WithCommissionRate(rate float64) *models.Agency {
	agency := f.Create()
	agency.CommissionRate = decimal.NewFromFloat(rate)
	return agency
}

// EmployerFactory provides methods to create test Employer data
type EmployerFactory struct{}

// NewEmployerFactory creates a new EmployerFactory
func NewEmployerFactory() *EmployerFactory {
	return &EmployerFactory{}
}

// Create creates a test Employer with default values
func (f *EmployerFactory) Create() *models.Employer {
	return &models.Employer{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:         "Test Employer",
		Jurisdiction: "NL",
	}
}

// WithJurisdiction sets a custom jurisdiction
func (f *EmployerFactory) WithJurisdiction(jurisdiction string) *models.Employer {
	employer := f.Create()
	employer.Jurisdiction = jurisdiction
	return employer
}

// EmployeeFactory provides methods to create test Employee data
type EmployeeFactory struct{}

// NewEmployeeFactory creates a new EmployeeFactory
func NewEmployeeFactory() *EmployeeFactory {
	return &EmployeeFactory{}
}

// Create creates a test Employee with default values
func (f *EmployeeFactory) Create() *models.Employee {
	return &models.Employee{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		AgencyID: uuid.New(),
		Name:     "Jane Worker",
		Email:    "jane.worker@test.com",
	}
}

// WithAgency ties the employee to an existing agency
func (f *EmployeeFactory) WithAgency(agencyID uuid.UUID) *models.Employee {
	employee := f.Create()
	employee.AgencyID = agencyID
	return employee
}

// LocationFactory provides methods to create test Location data
type LocationFactory struct{}

// NewLocationFactory creates a new LocationFactory
func NewLocationFactory() *LocationFactory {
	return &LocationFactory{}
}

// Create creates a test Location with default values
func (f *LocationFactory) Create() *models.Location {
	return &models.Location{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		EmployerID: uuid.New(),
		Name:       "Test Warehouse",
		Address:    "1 Dock Road",
	}
}

// WithEmployer ties the location to an existing employer
func (f *LocationFactory) WithEmployer(employerID uuid.UUID) *models.Location {
	location := f.Create()
	location.EmployerID = employerID
	return location
}

// AssignmentFactory provides methods to create test Assignment data
type AssignmentFactory struct{}

// NewAssignmentFactory creates a new AssignmentFactory
func NewAssignmentFactory() *AssignmentFactory {
	return &AssignmentFactory{}
}

// Create creates an active test Assignment with default rates. Markup fields
// are derived the same way the service derives them.
func (f *AssignmentFactory) Create() *models.Assignment {
	endDate := time.Now().AddDate(0, 3, 0)
	assignment := &models.Assignment{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ContractID: uuid.New(),
		AgencyID:   uuid.New(),
		EmployeeID: uuid.New(),
		LocationID: uuid.New(),
		Role:       "warehouse operative",
		StartDate:  time.Now().AddDate(0, -1, 0),
		EndDate:    &endDate,
		AgreedRate: decimal.NewFromInt(25),
		PayRate:    decimal.NewFromInt(20),
		Status:     models.AssignmentStatusActive,
	}
	assignment.ComputeMarkup()
	return assignment
}

// WithStatus sets a custom status
func (f *AssignmentFactory) WithStatus(status models.AssignmentStatus) *models.Assignment {
	assignment := f.Create()
	assignment.Status = status
	return assignment
}

// WithRates sets custom agreed and pay rates and recomputes markup
func (f *AssignmentFactory) WithRates(agreed, pay float64) *models.Assignment {
	assignment := f.Create()
	assignment.AgreedRate = decimal.NewFromFloat(agreed)
	assignment.PayRate = decimal.NewFromFloat(pay)
	assignment.ComputeMarkup()
	return assignment
}

// ShiftFactory provides methods to create test Shift data
type ShiftFactory struct{}

// NewShiftFactory creates a new ShiftFactory
func NewShiftFactory() *ShiftFactory {
	return &ShiftFactory{}
}

// Create creates an open test Shift with default values
func (f *ShiftFactory) Create() *models.Shift {
	start := time.Now().Add(24 * time.Hour)
	return &models.Shift{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		LocationID: uuid.New(),
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
		HourlyRate: decimal.NewFromInt(20),
		Status:     models.ShiftStatusOpen,
	}
}

// WithStatus sets a custom status
func (f *ShiftFactory) WithStatus(status models.ShiftStatus) *models.Shift {
	shift := f.Create()
	shift.Status = status
	return shift
}

// WithAssignment ties the shift to an existing assignment
func (f *ShiftFactory) WithAssignment(assignmentID uuid.UUID) *models.Shift {
	shift := f.Create()
	shift.AssignmentID = &assignmentID
	return shift
}

// OfferFactory provides methods to create test ShiftOffer data
type OfferFactory struct{}

// NewOfferFactory creates a new OfferFactory
func NewOfferFactory() *OfferFactory {
	return &OfferFactory{}
}

// Create creates a pending test ShiftOffer with default values
func (f *OfferFactory) Create() *models.ShiftOffer {
	return &models.ShiftOffer{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ShiftID:     uuid.New(),
		EmployeeID:  uuid.New(),
		OfferedByID: uuid.New(),
		Status:      models.OfferStatusPending,
		ExpiresAt:   time.Now().Add(2 * time.Hour),
	}
}

// ForShift ties the offer to an existing shift
func (f *OfferFactory) ForShift(shiftID uuid.UUID) *models.ShiftOffer {
	offer := f.Create()
	offer.ShiftID = shiftID
	return offer
}

// TimesheetFactory provides methods to create test Timesheet data
type TimesheetFactory struct{}

// NewTimesheetFactory creates a new TimesheetFactory
func NewTimesheetFactory() *TimesheetFactory {
	return &TimesheetFactory{}
}

// Create creates a pending test Timesheet with clock times recorded
func (f *TimesheetFactory) Create() *models.Timesheet {
	clockIn := time.Now().Add(-9 * time.Hour)
	clockOut := clockIn.Add(8 * time.Hour)
	timesheet := &models.Timesheet{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ShiftID:      uuid.New(),
		EmployeeID:   uuid.New(),
		ClockIn:      &clockIn,
		ClockOut:     &clockOut,
		BreakMinutes: 30,
		Status:       models.TimesheetStatusPending,
	}
	timesheet.ComputeHours()
	return timesheet
}

// WithStatus sets a custom status
func (f *TimesheetFactory) WithStatus(status models.TimesheetStatus) *models.Timesheet {
	timesheet := f.Create()
	timesheet.Status = status
	return timesheet
}
