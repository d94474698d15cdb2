package organizations

import (
	"errors"
	"fmt"
)

// Domain errors for organizations
var (
	// ErrOrganizationNotFound is returned when an organization doesn't exist
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrSlugTaken is returned when an organization slug is already in use
	ErrSlugTaken = errors.New("organization slug is already taken")
)

// ValidationError wraps input validation errors with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrganizationNotFound)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
