// Package handlers holds the HTTP handlers for the staffing workflow API
package handlers

import (
	"errors"
	"net/http"

	apperrors "staffing-platform-backend/internal/errors"
	"staffing-platform-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps domain errors to HTTP statuses: state conflicts are 409,
// validation 400, unknown entities 404, external collaborator failures 502.
func respondError(c *gin.Context, err error) {
	var (
		invalidTransition *apperrors.InvalidTransitionError
		alreadyAssigned   *apperrors.AlreadyAssignedError
		alreadyLocked     *apperrors.AlreadyLockedError
		validation        *apperrors.ValidationError
		notFound          *apperrors.NotFoundError
		external          *apperrors.ExternalDependencyError
	)

	switch {
	case errors.As(err, &invalidTransition), errors.As(err, &alreadyAssigned), errors.As(err, &alreadyLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &external):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": c.GetString("request_id"),
		})
	}
}

// wrapNotFound converts a bare record-not-found into the typed domain error
// so respondError maps it to 404
func wrapNotFound(err error, entity string) error {
	if repository.IsNotFound(err) {
		return &apperrors.NotFoundError{Entity: entity}
	}
	return err
}

// pathUUID parses the :id path parameter, responding 400 on garbage
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}
