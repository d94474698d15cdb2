package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Newsroom/internal/core/organizations"
)

const organizationColumns = `id, name, shorthand, slug, logo, short_description, long_description,
			website, email, instagram, linked_in, youtube, heel_life, public`

type postgresOrganizationRepo struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new PostgreSQL organization repository
func NewOrganizationRepository(db *sql.DB) organizations.Repository {
	return &postgresOrganizationRepo{db: db}
}

// Create inserts a new organization
func (r *postgresOrganizationRepo) Create(ctx context.Context, org *organizations.Organization) (*organizations.Organization, error) {
	query := `
		INSERT INTO organizations (
			name, shorthand, slug, logo, short_description, long_description,
			website, email, instagram, linked_in, youtube, heel_life, public
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13
		)
		RETURNING id`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		org.Name, org.Shorthand, org.Slug, org.Logo, org.ShortDescription, org.LongDescription,
		org.Website, org.Email, org.Instagram, org.LinkedIn, org.YouTube, org.HeelLife, org.Public,
	).Scan(&org.ID)
	if err != nil {
		if isUniqueViolation(err, "organizations_slug_key") {
			return nil, organizations.ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

// GetByID retrieves an organization by ID
func (r *postgresOrganizationRepo) GetByID(ctx context.Context, id int64) (*organizations.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves an organization by slug
func (r *postgresOrganizationRepo) GetBySlug(ctx context.Context, slug string) (*organizations.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *postgresOrganizationRepo) getOne(ctx context.Context, query string, arg any) (*organizations.Organization, error) {
	org, err := scanOrganization(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, organizations.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

func scanOrganization(row rowScanner) (*organizations.Organization, error) {
	org := &organizations.Organization{}
	err := row.Scan(
		&org.ID, &org.Name, &org.Shorthand, &org.Slug, &org.Logo,
		&org.ShortDescription, &org.LongDescription,
		&org.Website, &org.Email, &org.Instagram, &org.LinkedIn, &org.YouTube, &org.HeelLife,
		&org.Public,
	)
	if err != nil {
		return nil, err
	}
	return org, nil
}
