package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByOnyen(ctx context.Context, onyen string) (*User, error)

	// GetByIDs retrieves multiple users in a single query.
	// Missing users are absent from the map; that is not an error.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByOnyen(ctx context.Context, onyen string) (*User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)
}
