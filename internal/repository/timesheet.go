package repository

import (
	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimesheetRepository handles database operations for timesheets
type TimesheetRepository struct {
	db *gorm.DB
}

// NewTimesheetRepository creates a new timesheet repository
func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

// Create creates a new timesheet. The unique index on shift_id guarantees
// exactly one timesheet per shift.
func (r *TimesheetRepository) Create(timesheet *models.Timesheet) error {
	return r.db.Create(timesheet).Error
}

// GetByID retrieves a timesheet by ID
func (r *TimesheetRepository) GetByID(id uuid.UUID) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	err := r.db.First(&timesheet, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &timesheet, nil
}

// GetForUpdate retrieves a timesheet under a row lock
func (r *TimesheetRepository) GetForUpdate(id uuid.UUID) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&timesheet, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &timesheet, nil
}

// GetByShiftID retrieves the timesheet of a shift
func (r *TimesheetRepository) GetByShiftID(shiftID uuid.UUID) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	err := r.db.Where("shift_id = ?", shiftID).First(&timesheet).Error
	if err != nil {
		return nil, err
	}
	return &timesheet, nil
}

// Update updates a timesheet
func (r *TimesheetRepository) Update(timesheet *models.Timesheet) error {
	return r.db.Save(timesheet).Error
}
