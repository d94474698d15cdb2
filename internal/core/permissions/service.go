package permissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"

	"Newsroom/internal/core/users"
)

type permissionService struct {
	repo Repository
}

// NewPermissionService creates the authorization oracle backed by stored grants
func NewPermissionService(repo Repository) Service {
	return &permissionService{repo: repo}
}

// Enforce returns a *PermissionError unless one of subject's grants covers action on resource
func (s *permissionService) Enforce(ctx context.Context, subject *users.User, action, resource string) error {
	ok, err := s.Check(ctx, subject, action, resource)
	if err != nil {
		return err
	}
	if !ok {
		return &PermissionError{Action: action, Resource: resource}
	}
	return nil
}

// Check reports whether subject holds a grant matching action and resource.
// Anonymous subjects hold no grants.
func (s *permissionService) Check(ctx context.Context, subject *users.User, action, resource string) (bool, error) {
	if subject == nil || subject.ID == 0 {
		return false, nil
	}

	grants, err := s.repo.ListByUser(ctx, subject.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load permissions for user %d: %w", subject.ID, err)
	}

	for _, grant := range grants {
		if matches(grant.Action, action) && matches(grant.Resource, resource) {
			return true, nil
		}
	}

	log.Debug().
		Int64("user_id", subject.ID).
		Str("action", action).
		Str("resource", resource).
		Msg("permission check refused")
	return false, nil
}

// Grant stores a new grant after checking both patterns compile
func (s *permissionService) Grant(ctx context.Context, userID int64, action, resource string) (*Permission, error) {
	action = strings.TrimSpace(action)
	resource = strings.TrimSpace(resource)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", ErrInvalidPattern)
	}
	for _, pattern := range []string{action, resource} {
		if pattern == "" {
			return nil, fmt.Errorf("%w: pattern must not be empty", ErrInvalidPattern)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
		}
	}

	return s.repo.Create(ctx, &Permission{
		UserID:   userID,
		Action:   action,
		Resource: resource,
	})
}

// Revoke deletes a grant by ID
func (s *permissionService) Revoke(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListForUser returns every grant held by a user
func (s *permissionService) ListForUser(ctx context.Context, userID int64) ([]*Permission, error) {
	return s.repo.ListByUser(ctx, userID)
}

// matches compiles pattern without separators so `*` spans dots and slashes
func matches(pattern, value string) bool {
	if pattern == value {
		return true
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("ignoring malformed permission pattern")
		return false
	}
	return g.Match(value)
}
