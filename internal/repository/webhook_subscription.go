package repository

import (
	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookSubscriptionRepository handles database operations for webhook subscriptions
type WebhookSubscriptionRepository struct {
	db *gorm.DB
}

// NewWebhookSubscriptionRepository creates a new webhook subscription repository
func NewWebhookSubscriptionRepository(db *gorm.DB) *WebhookSubscriptionRepository {
	return &WebhookSubscriptionRepository{db: db}
}

// Create creates a new webhook subscription
func (r *WebhookSubscriptionRepository) Create(sub *models.WebhookSubscription) error {
	return r.db.Create(sub).Error
}

// Delete deletes a webhook subscription
func (r *WebhookSubscriptionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.WebhookSubscription{}, "id = ?", id).Error
}

// ListForEvent retrieves active subscriptions matching the event name,
// including catch-all subscriptions
func (r *WebhookSubscriptionRepository) ListForEvent(event string) ([]models.WebhookSubscription, error) {
	var subs []models.WebhookSubscription
	err := r.db.Where("active = ? AND (event = ? OR event = ?)", true, event, "*").Find(&subs).Error
	return subs, err
}

// ListAll retrieves all webhook subscriptions
func (r *WebhookSubscriptionRepository) ListAll() ([]models.WebhookSubscription, error) {
	var subs []models.WebhookSubscription
	err := r.db.Find(&subs).Error
	return subs, err
}
