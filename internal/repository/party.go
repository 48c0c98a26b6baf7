package repository

import (
	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyRepository handles lookups for agencies, employers, employees and
// locations. The workflow only cross-references these by id.
type PartyRepository struct {
	db *gorm.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db *gorm.DB) *PartyRepository {
	return &PartyRepository{db: db}
}

// CreateAgency creates a new agency
func (r *PartyRepository) CreateAgency(agency *models.Agency) error {
	return r.db.Create(agency).Error
}

// GetAgency retrieves an agency by ID
func (r *PartyRepository) GetAgency(id uuid.UUID) (*models.Agency, error) {
	var agency models.Agency
	err := r.db.First(&agency, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

// CreateEmployer creates a new employer
func (r *PartyRepository) CreateEmployer(employer *models.Employer) error {
	return r.db.Create(employer).Error
}

// GetEmployer retrieves an employer by ID
func (r *PartyRepository) GetEmployer(id uuid.UUID) (*models.Employer, error) {
	var employer models.Employer
	err := r.db.First(&employer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &employer, nil
}

// CreateEmployee creates a new employee
func (r *PartyRepository) CreateEmployee(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// GetEmployee retrieves an employee by ID
func (r *PartyRepository) GetEmployee(id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// CreateLocation creates a new location
func (r *PartyRepository) CreateLocation(location *models.Location) error {
	return r.db.Create(location).Error
}

// GetLocation retrieves a location by ID
func (r *PartyRepository) GetLocation(id uuid.UUID) (*models.Location, error) {
	var location models.Location
	err := r.db.First(&location, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}
