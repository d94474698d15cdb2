package posts

import (
	"context"

	"Newsroom/internal/core/organizations"
	"Newsroom/internal/core/users"
)

// Service is the news post facade used by the HTTP handlers
type Service interface {
	CreatePost(ctx context.Context, subject *users.User, post *Post) (*PostDetails, error)
	UpdatePost(ctx context.Context, subject *users.User, post *Post) (*PostDetails, error)
	DeletePost(ctx context.Context, subject *users.User, slug string) error

	GetBySlug(ctx context.Context, slug string) (*PostDetails, error)
	GetByID(ctx context.Context, id int64) (*PostDetails, error)

	GetAll(ctx context.Context, subject *users.User) ([]*PostDetails, error)
	GetPublished(ctx context.Context) ([]*PostDetails, error)
	GetIncoming(ctx context.Context, subject *users.User) ([]*PostDetails, error)
	GetDrafts(ctx context.Context, subject *users.User) ([]*PostDetails, error)
	GetArchived(ctx context.Context, subject *users.User) ([]*PostDetails, error)

	GetByOrganization(ctx context.Context, orgSlug string) ([]*PostDetails, error)
	GetByAuthor(ctx context.Context, authorID int64) ([]*PostDetails, error)
	GetDraftsByAuthor(ctx context.Context, subject *users.User, authorID int64) ([]*PostDetails, error)

	// ListPaginated pages through posts. A nil subject is limited to published posts.
	ListPaginated(ctx context.Context, params PaginationParams, subject *users.User) (*Paginated, error)
}

// Repository defines the data access interface for posts.
// Implementations run writes on the transaction carried by ctx when there is one.
type Repository interface {
	// Create inserts post and sets its ID. A slug collision returns an error wrapping ErrSlugTaken.
	Create(ctx context.Context, post *Post) error

	GetByID(ctx context.Context, id int64) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	// Update overwrites every mutable column of the post with post.ID
	Update(ctx context.Context, post *Post) error

	Delete(ctx context.Context, id int64) error

	// MaxID returns the largest assigned post ID, or 0 for an empty table
	MaxID(ctx context.Context) (int64, error)

	// List returns one page of posts matching q and the total number of matches
	List(ctx context.Context, q Query) ([]*Post, int, error)
}

// Transactor runs fn as one unit of work; fn's ctx carries the transaction
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Authorizer is the slice of the permission service the post facade needs
type Authorizer interface {
	Enforce(ctx context.Context, subject *users.User, action, resource string) error
}

// UserDirectory resolves authors
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*users.User, error)

	// GetUsersByIDs resolves several authors at once; unknown IDs are absent from the result
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*users.User, error)
}

// OrganizationDirectory resolves organizations
type OrganizationDirectory interface {
	GetByID(ctx context.Context, id int64) (*organizations.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*organizations.Organization, error)
}
