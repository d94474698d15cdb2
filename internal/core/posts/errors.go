package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post is not found by slug or ID
	ErrNotFound = errors.New("post not found")

	// ErrNotAuthenticated is returned when an anonymous caller reaches an operation that needs an actor
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrSlugTaken is returned by repositories when a write collides on the slug constraint
	ErrSlugTaken = errors.New("slug already in use")

	// ErrWriteFailed is returned when a create still collides after the slug retry
	ErrWriteFailed = errors.New("failed to write post")

	// ErrInvalidQuery is returned for unknown sort fields and malformed pagination input
	ErrInvalidQuery = errors.New("invalid query")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "post", "organization", "user"
	Key      string // the slug or ID that was looked up
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// Unwrap lets errors.Is(err, ErrNotFound) match post lookups
func (e *NotFoundError) Unwrap() error {
	if e.Resource == "post" {
		return ErrNotFound
	}
	return nil
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, key string) error {
	return &NotFoundError{
		Resource: resource,
		Key:      key,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound)
}

// IsInvalidQuery checks if error came from query validation
func IsInvalidQuery(err error) bool {
	return errors.Is(err, ErrInvalidQuery)
}
