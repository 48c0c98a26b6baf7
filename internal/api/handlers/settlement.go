package handlers

import (
	"net/http"

	"staffing-platform-backend/internal/settlement"

	"github.com/gin-gonic/gin"
)

// SettlementHandler exposes the payment confirmation callback and payout
// execution. Invoice generation itself has no endpoint; it runs off the bus.
type SettlementHandler struct {
	pipeline *settlement.Pipeline
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(pipeline *settlement.Pipeline) *SettlementHandler {
	return &SettlementHandler{pipeline: pipeline}
}

// MarkInvoicePaid handles POST /invoices/:id/paid, the payment provider
// confirmation callback
func (h *SettlementHandler) MarkInvoicePaid(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.pipeline.MarkInvoicePaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// ExecutePayout handles POST /payouts/:id/execute
func (h *SettlementHandler) ExecutePayout(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	payout, err := h.pipeline.ExecutePayout(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}
