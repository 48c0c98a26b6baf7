package handlers

import (
	"net/http"
	"time"

	"staffing-platform-backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// ShiftHandler handles HTTP requests for the shift lifecycle
type ShiftHandler struct {
	shifts *workflow.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shifts *workflow.ShiftService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

// RequestShift handles POST /shifts
func (h *ShiftHandler) RequestShift(c *gin.Context) {
	var req workflow.RequestShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	shift, err := h.shifts.Request(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// OfferShift handles POST /shifts/:id/offers
func (h *ShiftHandler) OfferShift(c *gin.Context) {
	shiftID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req workflow.OfferShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.ShiftID = shiftID

	offer, err := h.shifts.Offer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

// AcceptOffer handles POST /offers/:id/accept
func (h *ShiftHandler) AcceptOffer(c *gin.Context) {
	offerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	offer, err := h.shifts.Accept(c.Request.Context(), offerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// RejectOffer handles POST /offers/:id/reject
func (h *ShiftHandler) RejectOffer(c *gin.Context) {
	offerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	offer, err := h.shifts.Reject(c.Request.Context(), offerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// clockRequest carries the optional timestamp for clock in/out; the server
// clock is used when omitted
type clockRequest struct {
	At           *time.Time `json:"at,omitempty"`
	BreakMinutes int        `json:"break_minutes"`
}

// ClockIn handles POST /shifts/:id/clock-in
func (h *ShiftHandler) ClockIn(c *gin.Context) {
	shiftID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req clockRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	shift, err := h.shifts.ClockIn(c.Request.Context(), shiftID, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// ClockOut handles POST /shifts/:id/clock-out
func (h *ShiftHandler) ClockOut(c *gin.Context) {
	shiftID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req clockRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	timesheet, err := h.shifts.ClockOut(c.Request.Context(), shiftID, at, req.BreakMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

// cancelRequest carries the mandatory cancellation reason
type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelShift handles POST /shifts/:id/cancel
func (h *ShiftHandler) CancelShift(c *gin.Context) {
	shiftID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	shift, err := h.shifts.Cancel(c.Request.Context(), shiftID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}
