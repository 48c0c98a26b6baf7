package repository

import (
	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentRepository handles database operations for assignments
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create creates a new assignment
func (r *AssignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// GetForUpdate retrieves an assignment under a row lock
func (r *AssignmentRepository) GetForUpdate(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Update updates an assignment
func (r *AssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Save(assignment).Error
}

// AssignmentExtensionRepository handles the extension audit records
type AssignmentExtensionRepository struct {
	db *gorm.DB
}

// NewAssignmentExtensionRepository creates a new assignment extension repository
func NewAssignmentExtensionRepository(db *gorm.DB) *AssignmentExtensionRepository {
	return &AssignmentExtensionRepository{db: db}
}

// Create records one extension
func (r *AssignmentExtensionRepository) Create(ext *models.AssignmentExtension) error {
	return r.db.Create(ext).Error
}

// ListByAssignment retrieves an assignment's extension history, oldest first
func (r *AssignmentExtensionRepository) ListByAssignment(assignmentID uuid.UUID) ([]models.AssignmentExtension, error) {
	var exts []models.AssignmentExtension
	err := r.db.Where("assignment_id = ?", assignmentID).Order("created_at ASC").Find(&exts).Error
	return exts, err
}
