package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the platform's bearer tokens. ActorType distinguishes
// agency, employer, employee and platform callers; handlers use it to fill
// the actor on workflow operations.
type Claims struct {
	ActorType string `json:"actor_type"`
	ActorID   string `json:"actor_id"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and sets the actor context
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("actor_type", claims.ActorType)
		c.Set("actor_id", claims.ActorID)
		c.Next()
	}
}

// ActorType extracts the authenticated caller's actor type, defaulting to
// "system" for unauthenticated test routers
func ActorType(c *gin.Context) string {
	if actorType := c.GetString("actor_type"); actorType != "" {
		return actorType
	}
	return "system"
}
