package apperrors

import "errors"

// Error kinds. Every error leaving a service wraps exactly one of these.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	ErrPermissionDenied = errors.New("permission denied")
)

// CustomError carries a user-facing message and an optional inner detail next to its kind
type CustomError struct {
	Err     error
	Message string
	Inner   string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithInner attaches a technical detail shown as `inner` in the error body
func (e *CustomError) WithInner(inner string) *CustomError {
	e.Inner = inner
	return e
}

// NewCustomError creates a CustomError of the given kind
func NewCustomError(kind error, message string) *CustomError {
	return &CustomError{
		Err:     kind,
		Message: message,
	}
}

// NewValidationError reports bad input
func NewValidationError(message string) *CustomError {
	return NewCustomError(ErrValidationFailed, message)
}

// NewResourceNotFoundError reports a missing referenced entity
func NewResourceNotFoundError(message string) *CustomError {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewConflictError reports a uniqueness or state clash
func NewConflictError(message string) *CustomError {
	return NewCustomError(ErrConflict, message)
}

// NewAuthError reports failed authentication
func NewAuthError(message string) *CustomError {
	return NewCustomError(ErrInvalidCredentials, message)
}

// NewForbiddenError reports an authenticated caller lacking permission
func NewForbiddenError(message string) *CustomError {
	return NewCustomError(ErrPermissionDenied, message)
}

// MessageOf returns the user-facing message of err, or fallback when err carries none
func MessageOf(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// InnerOf returns the inner detail of err, if any
func InnerOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Inner
	}
	return ""
}
