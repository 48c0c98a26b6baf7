// Package middleware holds the gin middleware chain: request logging,
// panic recovery, request ids and CORS.
package middleware

import (
	"time"

	"staffing-platform-backend/internal/config"
	"staffing-platform-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Logger logs one structured line per request
func Logger() gin.HandlerFunc {
	log := logger.New()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString("request_id"),
			"client_ip":   c.ClientIP(),
		}).Info("request completed")
	}
}

// Recovery converts panics into 500 responses with the request id attached
func Recovery() gin.HandlerFunc {
	log := logger.New()
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic":      r,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString("request_id"),
				}).Error("panic recovered")
				c.AbortWithStatusJSON(500, gin.H{
					"error":      "Internal server error",
					"request_id": c.GetString("request_id"),
				})
			}
		}()
		c.Next()
	}
}

// RequestID assigns each request a uuid, honoring an inbound X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// CORS allows the configured origins
func CORS(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
