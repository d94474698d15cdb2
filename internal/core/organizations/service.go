package organizations

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Slugs are lowercase words separated by single hyphens
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type organizationService struct {
	repo Repository
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(repo Repository) Service {
	return &organizationService{repo: repo}
}

// CreateOrganization validates and stores a new organization
func (s *organizationService) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*Organization, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(strings.ToLower(req.Slug))

	if req.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if req.Slug == "" {
		return nil, NewValidationError("slug", "slug is required")
	}
	if !slugRegex.MatchString(req.Slug) {
		return nil, NewValidationError("slug", "slug must be lowercase words separated by hyphens")
	}

	org := &Organization{
		Name:             req.Name,
		Shorthand:        strings.TrimSpace(req.Shorthand),
		Slug:             req.Slug,
		Logo:             req.Logo,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Website:          req.Website,
		Email:            req.Email,
		Instagram:        req.Instagram,
		LinkedIn:         req.LinkedIn,
		YouTube:          req.YouTube,
		HeelLife:         req.HeelLife,
		Public:           req.Public,
	}

	return s.repo.Create(ctx, org)
}

// GetByID retrieves an organization by its numeric ID
func (s *organizationService) GetByID(ctx context.Context, id int64) (*Organization, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrOrganizationNotFound, id)
	}
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves an organization by its slug
func (s *organizationService) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, NewValidationError("slug", "slug is required")
	}
	return s.repo.GetBySlug(ctx, slug)
}
