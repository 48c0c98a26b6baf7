package repository

import (
	"time"

	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftOfferRepository handles database operations for shift offers
type ShiftOfferRepository struct {
	db *gorm.DB
}

// NewShiftOfferRepository creates a new shift offer repository
func NewShiftOfferRepository(db *gorm.DB) *ShiftOfferRepository {
	return &ShiftOfferRepository{db: db}
}

// Create creates a new shift offer. The partial unique index on
// (shift_id) WHERE status = 'pending' makes a racing second offer fail with
// a unique violation.
func (r *ShiftOfferRepository) Create(offer *models.ShiftOffer) error {
	return r.db.Create(offer).Error
}

// GetByID retrieves a shift offer by ID
func (r *ShiftOfferRepository) GetByID(id uuid.UUID) (*models.ShiftOffer, error) {
	var offer models.ShiftOffer
	err := r.db.First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetForUpdate retrieves a shift offer under a row lock
func (r *ShiftOfferRepository) GetForUpdate(id uuid.UUID) (*models.ShiftOffer, error) {
	var offer models.ShiftOffer
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// Update updates a shift offer
func (r *ShiftOfferRepository) Update(offer *models.ShiftOffer) error {
	return r.db.Save(offer).Error
}

// PendingByShift retrieves the shift's pending offer, if any
func (r *ShiftOfferRepository) PendingByShift(shiftID uuid.UUID) (*models.ShiftOffer, error) {
	var offer models.ShiftOffer
	err := r.db.Where("shift_id = ? AND status = ?", shiftID, models.OfferStatusPending).First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// AcceptedByShift retrieves the shift's accepted offer, newest first
func (r *ShiftOfferRepository) AcceptedByShift(shiftID uuid.UUID) (*models.ShiftOffer, error) {
	var offer models.ShiftOffer
	err := r.db.Where("shift_id = ? AND status = ?", shiftID, models.OfferStatusAccepted).
		Order("updated_at DESC").First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListExpiredPending retrieves pending offers whose expiry has passed,
// oldest first, for the expiry sweep
func (r *ShiftOfferRepository) ListExpiredPending(now time.Time, limit int) ([]models.ShiftOffer, error) {
	var offers []models.ShiftOffer
	err := r.db.
		Where("status = ? AND expires_at < ?", models.OfferStatusPending, now).
		Order("expires_at ASC").Limit(limit).
		Find(&offers).Error
	return offers, err
}
