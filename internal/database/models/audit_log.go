package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// AuditLog records one domain event as reported by its AuditSummary. Every
// event carries the summary itself, so the listener never needs reflection.
type AuditLog struct {
	BaseModel
	Event      string          `json:"event" gorm:"size:60;not null;index"`
	ActorType  string          `json:"actor_type" gorm:"size:30;not null"`
	TargetType string          `json:"target_type" gorm:"size:30;not null;index"`
	TargetID   uuid.UUID       `json:"target_id" gorm:"type:uuid;not null;index"`
	Payload    json.RawMessage `json:"payload" gorm:"type:jsonb"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
