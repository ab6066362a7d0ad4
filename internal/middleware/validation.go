package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
)

// HandleBindingError reports a request that failed to bind or validate as a 400
func HandleBindingError(c *gin.Context, err error, message string) {
	HandleAPIError(c, apperrors.NewValidationError(message).WithInner(describeBindingError(err)))
}

// describeBindingError lists validator field errors one per clause, or returns the decoder error
func describeBindingError(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, formatValidationError(fe))
	}
	return strings.Join(messages, "; ")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "notblank":
		return e.Field() + " must not be blank"
	case "phone":
		return e.Field() + " must be a valid phone number"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
