package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"Newsroom/internal/core/users"
)

const userColumns = `id, pid, onyen, first_name, last_name, email, pronouns, created_at, updated_at`

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (pid, onyen, first_name, last_name, email, pronouns)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		user.PID, user.Onyen, user.FirstName, user.LastName, user.Email, user.Pronouns,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_onyen_key") {
			return nil, users.ErrOnyenAlreadyTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByOnyen retrieves a user by their onyen
func (r *postgresUserRepo) GetByOnyen(ctx context.Context, onyen string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE onyen = $1`

	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, onyen))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by onyen: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves multiple users in one query
func (r *postgresUserRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*users.User, error) {
	result := make(map[int64]*users.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch get users: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan user: %w", scanErr)
		}
		result[user.ID] = user
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return result, nil
}

func scanUser(row rowScanner) (*users.User, error) {
	user := &users.User{}
	err := row.Scan(
		&user.ID, &user.PID, &user.Onyen, &user.FirstName, &user.LastName,
		&user.Email, &user.Pronouns, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
