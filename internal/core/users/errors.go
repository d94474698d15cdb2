package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrOnyenAlreadyTaken is returned when creating a user whose onyen belongs to another user
	ErrOnyenAlreadyTaken = errors.New("onyen already taken")
)

// InvalidUserError is returned when a create request fails validation
type InvalidUserError struct {
	Field  string
	Reason string
}

func (e *InvalidUserError) Error() string {
	return fmt.Sprintf("invalid user %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err means the user does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
