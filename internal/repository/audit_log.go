package repository

import (
	"staffing-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository handles database operations for audit logs
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create creates a new audit log entry
func (r *AuditLogRepository) Create(log *models.AuditLog) error {
	return r.db.Create(log).Error
}

// ListByTarget retrieves the audit trail of one entity, newest first
func (r *AuditLogRepository) ListByTarget(targetID uuid.UUID, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := r.db.Model(&models.AuditLog{}).Where("target_id = ?", targetID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("target_id = ?", targetID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}
