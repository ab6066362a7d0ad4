package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
)

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewValidationError("bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.NewAuthError("Invalid credentials"), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{fmt.Errorf("%w: sig", apperrors.ErrTokenInvalid), http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.NewResourceNotFoundError("Course not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewConflictError("dup"), http.StatusConflict, dto.ErrorCodeConflict},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		w, body := serveError(t, tt.err)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Equal(t, tt.code, body.Code)
		assert.False(t, body.Success)
	}
}

func TestHandleAPIErrorBody(t *testing.T) {
	_, body := serveError(t, apperrors.NewResourceNotFoundError("Course not found").WithInner("record not found"))
	assert.Equal(t, "Course not found", body.Message)
	assert.Equal(t, "record not found", body.Inner)

	_, body = serveError(t, fmt.Errorf("db down: %w", errors.New("dial tcp")))
	assert.Equal(t, "Internal server error", body.Message)
	assert.Empty(t, body.Inner)
}
