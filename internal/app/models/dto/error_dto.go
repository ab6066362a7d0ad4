package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeConflict         ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeRateLimited    ErrorCode = "SRV_004"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool      `json:"success" example:"false"`
	Code      ErrorCode `json:"code" example:"RES_001"`
	Message   string    `json:"message" example:"Course not found"`
	Inner     string    `json:"inner,omitempty" example:"record not found"`
	Timestamp time.Time `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message, inner string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Code:      code,
		Message:   message,
		Inner:     inner,
		Timestamp: time.Now(),
	}
}
