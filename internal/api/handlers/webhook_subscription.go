package handlers

import (
	"net/http"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// WebhookSubscriptionHandler manages external event receivers
type WebhookSubscriptionHandler struct {
	store     repository.Store
	validator *validator.Validate
}

// NewWebhookSubscriptionHandler creates a new webhook subscription handler
func NewWebhookSubscriptionHandler(store repository.Store, validator *validator.Validate) *WebhookSubscriptionHandler {
	return &WebhookSubscriptionHandler{
		store:     store,
		validator: validator,
	}
}

// CreateSubscription handles POST /webhook-subscriptions
func (h *WebhookSubscriptionHandler) CreateSubscription(c *gin.Context) {
	var sub models.WebhookSubscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.validator.Struct(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if sub.Event == "" {
		sub.Event = "*"
	}
	sub.Active = true

	if err := h.store.WebhookSubscriptions().Create(&sub); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// ListSubscriptions handles GET /webhook-subscriptions
func (h *WebhookSubscriptionHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.store.WebhookSubscriptions().ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "total": len(subs)})
}

// DeleteSubscription handles DELETE /webhook-subscriptions/:id
func (h *WebhookSubscriptionHandler) DeleteSubscription(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.store.WebhookSubscriptions().Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}
