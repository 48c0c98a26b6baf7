package handlers

import (
	"net/http"

	"staffing-platform-backend/internal/api/middleware"
	"staffing-platform-backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// TimesheetHandler handles HTTP requests for the timesheet approval chain
type TimesheetHandler struct {
	timesheets *workflow.TimesheetService
}

// NewTimesheetHandler creates a new timesheet handler
func NewTimesheetHandler(timesheets *workflow.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheets: timesheets}
}

// CorrectTimesheet handles PUT /timesheets/:id
func (h *TimesheetHandler) CorrectTimesheet(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req workflow.CorrectTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.TimesheetID = id

	timesheet, err := h.timesheets.Correct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

// ApproveByAgency handles POST /timesheets/:id/agency-approval
func (h *TimesheetHandler) ApproveByAgency(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	timesheet, err := h.timesheets.ApproveByAgency(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

// ApproveByEmployer handles POST /timesheets/:id/employer-approval
func (h *TimesheetHandler) ApproveByEmployer(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	timesheet, err := h.timesheets.ApproveByEmployer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

// rejectTimesheetRequest carries the mandatory rejection reason
type rejectTimesheetRequest struct {
	Reason string `json:"reason"`
}

// RejectTimesheet handles POST /timesheets/:id/reject
func (h *TimesheetHandler) RejectTimesheet(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req rejectTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	timesheet, err := h.timesheets.Reject(c.Request.Context(), id, middleware.ActorType(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesheet)
}
