package permissions

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is the root of every authorization failure
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPermissionNotFound is returned when revoking a grant that doesn't exist
	ErrPermissionNotFound = errors.New("permission not found")

	// ErrInvalidPattern is returned when a grant's action or resource is not a valid glob
	ErrInvalidPattern = errors.New("invalid permission pattern")
)

// PermissionError names the action and resource that were refused
type PermissionError struct {
	Action   string
	Resource string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("not authorized to perform `%s` on `%s`", e.Action, e.Resource)
}

// Unwrap lets errors.Is match ErrPermissionDenied
func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// IsPermissionDenied checks if err is an authorization failure
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
