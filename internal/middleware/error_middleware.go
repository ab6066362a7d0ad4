package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

// apiError describes how one error kind is rendered
type apiError struct {
	status  int
	code    dto.ErrorCode
	message string
}

// classify picks status, code and default message by the kind err wraps
func classify(err error) apiError {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}
	case errors.Is(err, apperrors.ErrConflict):
		return apiError{http.StatusConflict, dto.ErrorCodeConflict, "Conflict"}
	}
	return apiError{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
}

// HandleAPIError writes the error body for err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	e := classify(err)

	if e.status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		c.AbortWithStatusJSON(e.status, dto.NewErrorResponse(e.code, e.message, ""))
		return
	}

	c.AbortWithStatusJSON(e.status, dto.NewErrorResponse(e.code, apperrors.MessageOf(err, e.message), apperrors.InnerOf(err)))
}
