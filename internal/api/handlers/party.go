package handlers

import (
	"net/http"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PartyHandler manages the reference entities the workflow cross-references:
// agencies, employers, employees and locations
type PartyHandler struct {
	store     repository.Store
	validator *validator.Validate
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(store repository.Store, validator *validator.Validate) *PartyHandler {
	return &PartyHandler{
		store:     store,
		validator: validator,
	}
}

// CreateAgency handles POST /agencies
func (h *PartyHandler) CreateAgency(c *gin.Context) {
	var agency models.Agency
	if err := c.ShouldBindJSON(&agency); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.validator.Struct(&agency); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if err := h.store.Parties().CreateAgency(&agency); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agency)
}

// GetAgency handles GET /agencies/:id
func (h *PartyHandler) GetAgency(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	agency, err := h.store.Parties().GetAgency(id)
	if err != nil {
		respondError(c, wrapNotFound(err, "agency"))
		return
	}
	c.JSON(http.StatusOK, agency)
}

// CreateEmployer handles POST /employers
func (h *PartyHandler) CreateEmployer(c *gin.Context) {
	var employer models.Employer
	if err := c.ShouldBindJSON(&employer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.validator.Struct(&employer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if err := h.store.Parties().CreateEmployer(&employer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employer)
}

// GetEmployer handles GET /employers/:id
func (h *PartyHandler) GetEmployer(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	employer, err := h.store.Parties().GetEmployer(id)
	if err != nil {
		respondError(c, wrapNotFound(err, "employer"))
		return
	}
	c.JSON(http.StatusOK, employer)
}

// CreateEmployee handles POST /employees
func (h *PartyHandler) CreateEmployee(c *gin.Context) {
	var employee models.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.validator.Struct(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if err := h.store.Parties().CreateEmployee(&employee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// CreateLocation handles POST /locations
func (h *PartyHandler) CreateLocation(c *gin.Context) {
	var location models.Location
	if err := c.ShouldBindJSON(&location); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.validator.Struct(&location); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if err := h.store.Parties().CreateLocation(&location); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}
