package models

// WebhookSubscription registers one external receiver for domain events.
// Event is a single event name or "*" for all events. Secret is the
// per-subscriber HMAC-SHA256 signing key.
type WebhookSubscription struct {
	BaseModel
	URL    string `json:"url" gorm:"size:500;not null" validate:"required,url"`
	Event  string `json:"event" gorm:"size:60;not null;default:'*'"`
	Secret string `json:"-" gorm:"size:100;not null" validate:"required"`
	Active bool   `json:"active" gorm:"default:true"`
}

// TableName returns the table name for WebhookSubscription
func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}
