package permissions

import (
	"context"

	"Newsroom/internal/core/users"
)

// Repository defines the interface for permission grant persistence
type Repository interface {
	Create(ctx context.Context, p *Permission) (*Permission, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]*Permission, error)
}

// Service is the authorization oracle consulted by the domain services
type Service interface {
	// Enforce returns nil when subject may perform action on resource,
	// and a *PermissionError otherwise
	Enforce(ctx context.Context, subject *users.User, action, resource string) error

	// Check is Enforce without the error for the denied case
	Check(ctx context.Context, subject *users.User, action, resource string) (bool, error)

	Grant(ctx context.Context, userID int64, action, resource string) (*Permission, error)
	Revoke(ctx context.Context, id int64) error
	ListForUser(ctx context.Context, userID int64) ([]*Permission, error)
}
