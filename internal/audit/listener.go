// Package audit persists every domain event as an append-only audit row
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/repository"
)

// Listener records every event's AuditSummary into the audit log
type Listener struct {
	store repository.Store
}

// NewListener creates an audit listener
func NewListener(store repository.Store) *Listener {
	return &Listener{store: store}
}

// Register subscribes the listener to all events
func (l *Listener) Register(bus events.Bus) {
	bus.Subscribe("audit", events.Wildcard, l.Handle)
}

// Handle appends one audit row for the event
func (l *Listener) Handle(ctx context.Context, evt events.Event) error {
	actorType, targetType, targetID, fields := evt.AuditSummary()
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode audit payload: %w", err)
	}
	return l.store.AuditLogs().Create(&models.AuditLog{
		Event:      evt.Name,
		ActorType:  actorType,
		TargetType: targetType,
		TargetID:   targetID,
		Payload:    payload,
	})
}
