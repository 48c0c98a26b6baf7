package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger checks a broker connection; nil when running on the in-process bus
type Pinger interface {
	Ping() error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db     *gorm.DB
	broker Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, broker Pinger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		broker: broker,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// Health returns the health status of the application
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Services:  make(map[string]string),
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		response.Status = "unhealthy"
		response.Services["database"] = "error: " + err.Error()
	} else if err := sqlDB.Ping(); err != nil {
		response.Status = "unhealthy"
		response.Services["database"] = "error: " + err.Error()
	} else {
		response.Services["database"] = "healthy"
	}

	if h.broker != nil {
		if err := h.broker.Ping(); err != nil {
			response.Status = "unhealthy"
			response.Services["broker"] = "error: " + err.Error()
		} else {
			response.Services["broker"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// Ready returns the readiness status of the application
func (h *HealthHandler) Ready(c *gin.Context) {
	ready := true
	services := make(map[string]string)

	sqlDB, err := h.db.DB()
	if err != nil {
		ready = false
		services["database"] = "not ready: " + err.Error()
	} else if err := sqlDB.Ping(); err != nil {
		ready = false
		services["database"] = "not ready: " + err.Error()
	} else {
		services["database"] = "ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now(),
		"services":  services,
	})
}

// Live returns the liveness status of the application
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now(),
	})
}
