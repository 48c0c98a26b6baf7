package handlers

import (
	"net/http"
	"strconv"

	"staffing-platform-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the append-only event history per entity
type AuditHandler struct {
	store repository.Store
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(store repository.Store) *AuditHandler {
	return &AuditHandler{store: store}
}

// ListByTarget handles GET /audit-logs/:id
func (h *AuditHandler) ListByTarget(c *gin.Context) {
	targetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	logs, total, err := h.store.AuditLogs().ListByTarget(targetID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs, "total": total})
}
