package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "staffing-platform-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "invalid transition conflicts",
			err:    &apperrors.InvalidTransitionError{Entity: "shift", From: "completed", To: "open"},
			status: http.StatusConflict,
		},
		{
			name:   "already assigned conflicts",
			err:    &apperrors.AlreadyAssignedError{ShiftID: uuid.New()},
			status: http.StatusConflict,
		},
		{
			name:   "already locked conflicts",
			err:    &apperrors.AlreadyLockedError{ShiftID: uuid.New()},
			status: http.StatusConflict,
		},
		{
			name:   "validation is a bad request",
			err:    &apperrors.ValidationError{Field: "reason", Message: "required"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown entity is not found",
			err:    &apperrors.NotFoundError{Entity: "timesheet"},
			status: http.StatusNotFound,
		},
		{
			name:   "external failure is a bad gateway",
			err:    &apperrors.ExternalDependencyError{Dependency: "payout processor", Err: errors.New("timeout")},
			status: http.StatusBadGateway,
		},
		{
			name:   "anything else is a server error",
			err:    errors.New("broken pipe"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}

func TestRespondError_WrappedErrorStillMaps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	wrapped := &apperrors.ExternalDependencyError{
		Dependency: "payout processor",
		Err:        &apperrors.ValidationError{Message: "inner"},
	}
	respondError(c, wrapped)

	// The outer classification wins over the wrapped cause
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestPathUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	want := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: want.String()}}

	got, ok := pathUUID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, want, got)

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok = pathUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
