package repository

import (
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftRepository handles database operations for shifts
type ShiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create creates a new shift
func (r *ShiftRepository) Create(shift *models.Shift) error {
	return r.db.Create(shift).Error
}

// GetByID retrieves a shift by ID
func (r *ShiftRepository) GetByID(id uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.First(&shift, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// GetForUpdate retrieves a shift under a row lock. Must run inside a
// transaction; the lock serializes concurrent transitions on the shift.
func (r *ShiftRepository) GetForUpdate(id uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&shift, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// Update updates a shift
func (r *ShiftRepository) Update(shift *models.Shift) error {
	return r.db.Save(shift).Error
}

// FutureNonTerminal retrieves an assignment's shifts that start after the
// given time and can still be cancelled
func (r *ShiftRepository) FutureNonTerminal(assignmentID uuid.UUID, after time.Time) ([]models.Shift, error) {
	var shifts []models.Shift
	err := r.db.
		Where("assignment_id = ? AND start_time > ? AND status IN ?",
			assignmentID, after,
			[]models.ShiftStatus{models.ShiftStatusOpen, models.ShiftStatusOffered, models.ShiftStatusAssigned}).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

// ListByAssignment retrieves all shifts of an assignment
func (r *ShiftRepository) ListByAssignment(assignmentID uuid.UUID, limit, offset int) ([]models.Shift, int64, error) {
	var shifts []models.Shift
	var total int64

	if err := r.db.Model(&models.Shift{}).Where("assignment_id = ?", assignmentID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("assignment_id = ?", assignmentID).
		Order("start_time DESC").Limit(limit).Offset(offset).Find(&shifts).Error
	return shifts, total, err
}
