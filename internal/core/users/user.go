package users

import (
	"strings"
	"time"
)

// User is a member of the platform directory.
// Posts reference users by ID as their author.
type User struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Onyen     string    `json:"onyen" db:"onyen"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Pronouns  string    `json:"pronouns" db:"pronouns"`
	ID        int64     `json:"id" db:"id"`
	PID       int       `json:"pid" db:"pid"`
}

// FullName joins first and last name with a single space
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CreateUserRequest represents the input for adding a user to the directory
type CreateUserRequest struct {
	Onyen     string `json:"onyen"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Pronouns  string `json:"pronouns"`
	PID       int    `json:"pid"`
}
