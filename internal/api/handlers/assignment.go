package handlers

import (
	"net/http"

	"staffing-platform-backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// AssignmentHandler handles HTTP requests for the assignment lifecycle
type AssignmentHandler struct {
	assignments *workflow.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments *workflow.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// CreateAssignment handles POST /assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req workflow.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	assignment, err := h.assignments.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ActivateAssignment handles POST /assignments/:id/activate
func (h *AssignmentHandler) ActivateAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.assignments.Activate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// SuspendAssignment handles POST /assignments/:id/suspend
func (h *AssignmentHandler) SuspendAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.assignments.Suspend(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// ReactivateAssignment handles POST /assignments/:id/reactivate
func (h *AssignmentHandler) ReactivateAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.assignments.Reactivate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// CompleteAssignment handles POST /assignments/:id/complete
func (h *AssignmentHandler) CompleteAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.assignments.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// cancelAssignmentRequest carries the mandatory cancellation note
type cancelAssignmentRequest struct {
	Note string `json:"note"`
}

// CancelAssignment handles POST /assignments/:id/cancel
func (h *AssignmentHandler) CancelAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req cancelAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	assignment, err := h.assignments.Cancel(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// ExtendAssignment handles POST /assignments/:id/extend
func (h *AssignmentHandler) ExtendAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req workflow.ExtendAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.AssignmentID = id

	assignment, err := h.assignments.Extend(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// CorrectRates handles PUT /assignments/:id/rates
func (h *AssignmentHandler) CorrectRates(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req workflow.CorrectRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.AssignmentID = id

	assignment, err := h.assignments.CorrectRates(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}
