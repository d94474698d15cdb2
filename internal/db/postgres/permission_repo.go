package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"Newsroom/internal/core/permissions"
)

type postgresPermissionRepo struct {
	db *sql.DB
}

// NewPermissionRepository creates a new PostgreSQL permission repository
func NewPermissionRepository(db *sql.DB) permissions.Repository {
	return &postgresPermissionRepo{db: db}
}

// Create stores a grant. Granting the same (user, action, resource) twice returns the existing row.
func (r *postgresPermissionRepo) Create(ctx context.Context, p *permissions.Permission) (*permissions.Permission, error) {
	query := `
		INSERT INTO permissions (user_id, action, resource)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT permissions_user_action_resource_key
		DO UPDATE SET action = EXCLUDED.action
		RETURNING id, created_at`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, p.UserID, p.Action, p.Resource).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	return p, nil
}

// Delete removes a grant
func (r *postgresPermissionRepo) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return permissions.ErrPermissionNotFound
	}
	return nil
}

// ListByUser returns a user's grants, oldest first
func (r *postgresPermissionRepo) ListByUser(ctx context.Context, userID int64) ([]*permissions.Permission, error) {
	query := `
		SELECT id, user_id, action, resource, created_at
		FROM permissions
		WHERE user_id = $1
		ORDER BY id`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	result := []*permissions.Permission{}
	for rows.Next() {
		p := &permissions.Permission{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Action, &p.Resource, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permissions: %w", err)
	}

	return result, nil
}
