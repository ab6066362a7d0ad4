package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/eduadmin/internal/app/repositories"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
)

// lookupError turns a failed lookup of what into a NotFound error, or wraps anything else
func lookupError(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewResourceNotFoundError(what + " not found").WithInner(err.Error())
	}
	return fmt.Errorf("error retrieving %s: %w", strings.ToLower(what), err)
}

// requireText reports a validation error when value is blank
func requireText(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field + " is required")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
