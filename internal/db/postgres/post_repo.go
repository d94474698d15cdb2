package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"Newsroom/internal/core/posts"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

const postSlugConstraint = "news_posts_slug_key"

const postColumns = `p.id, p.headline, p.synopsis, p.main_story, p.slug, p.image_url,
			p.state, p.author_id, p.organization_id, p.time, p.modification_date`

// postFrom joins the tables the free-text filter searches
const postFrom = `
		FROM news_posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN organizations o ON o.id = p.organization_id`

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new news post and sets its ID
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO news_posts (
			headline, synopsis, main_story, slug, image_url,
			state, author_id, organization_id, time, modification_date
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)
		RETURNING id`

	err := GetExecutor(ctx, r.db).QueryRowContext(
		ctx, query,
		post.Headline, nullString(post.Synopsis), post.MainStory, post.Slug, nullString(post.ImageURL),
		string(post.State), post.AuthorID, nullInt64(post.OrganizationID), post.Time, post.ModificationDate,
	).Scan(&post.ID)
	if err != nil {
		if isUniqueViolation(err, postSlugConstraint) {
			return fmt.Errorf("slug %q: %w", post.Slug, posts.ErrSlugTaken)
		}
		return fmt.Errorf("failed to insert news post: %w", err)
	}

	return nil
}

// GetByID retrieves a news post by its ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM news_posts p WHERE p.id = $1`

	post, err := scanPost(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.NewNotFoundError("post", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news post by id: %w", err)
	}
	return post, nil
}

// GetBySlug retrieves a news post by its slug
func (r *postgresPostRepo) GetBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM news_posts p WHERE p.slug = $1`

	post, err := scanPost(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.NewNotFoundError("post", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news post by slug: %w", err)
	}
	return post, nil
}

// Update overwrites every mutable column of the post
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	query := `
		UPDATE news_posts
		SET headline = $2,
			synopsis = $3,
			main_story = $4,
			slug = $5,
			image_url = $6,
			state = $7,
			author_id = $8,
			organization_id = $9,
			time = $10,
			modification_date = $11
		WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(
		ctx, query, post.ID,
		post.Headline, nullString(post.Synopsis), post.MainStory, post.Slug, nullString(post.ImageURL),
		string(post.State), post.AuthorID, nullInt64(post.OrganizationID), post.Time, post.ModificationDate,
	)
	if err != nil {
		if isUniqueViolation(err, postSlugConstraint) {
			return fmt.Errorf("slug %q: %w", post.Slug, posts.ErrSlugTaken)
		}
		return fmt.Errorf("failed to update news post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.NewNotFoundError("post", strconv.FormatInt(post.ID, 10))
	}
	return nil
}

// Delete permanently removes a news post
func (r *postgresPostRepo) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM news_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.NewNotFoundError("post", strconv.FormatInt(id, 10))
	}
	return nil
}

// MaxID returns the largest assigned post ID
func (r *postgresPostRepo) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM news_posts`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to read max news post id: %w", err)
	}
	return maxID, nil
}

// List returns one page of posts matching q and the number of matches before paging
func (r *postgresPostRepo) List(ctx context.Context, q posts.Query) ([]*posts.Post, int, error) {
	exec := GetExecutor(ctx, r.db)
	lq := buildListQuery(q)

	var total int
	if err := exec.QueryRowContext(ctx, lq.count, lq.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news posts: %w", err)
	}

	rows, err := exec.QueryContext(ctx, lq.page, lq.pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news posts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	result := []*posts.Post{}
	for rows.Next() {
		post, scanErr := scanPost(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("failed to scan news post: %w", scanErr)
		}
		result = append(result, post)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating news posts: %w", err)
	}

	return result, total, nil
}

// listQuery is a compiled posts.Query
type listQuery struct {
	count    string
	page     string
	args     []any
	pageArgs []any
}

// buildListQuery compiles q into a COUNT query and a page query sharing one WHERE clause.
// Column names only ever come from posts.SortField, never from caller input.
func buildListQuery(q posts.Query) listQuery {
	whereClauses := []string{}
	args := []any{}
	argCount := 1

	addArg := func(v any) string {
		args = append(args, v)
		placeholder := fmt.Sprintf("$%d", argCount)
		argCount++
		return placeholder
	}

	if q.State != "" {
		whereClauses = append(whereClauses, "p.state = "+addArg(string(q.State)))
	}
	if q.AuthorID != 0 {
		whereClauses = append(whereClauses, "p.author_id = "+addArg(q.AuthorID))
	}
	if q.OrganizationID != 0 {
		whereClauses = append(whereClauses, "p.organization_id = "+addArg(q.OrganizationID))
	}
	if q.RangeStart != nil {
		whereClauses = append(whereClauses, "p.time >= "+addArg(*q.RangeStart))
	}
	if q.RangeEnd != nil {
		whereClauses = append(whereClauses, "p.time <= "+addArg(*q.RangeEnd))
	}
	if q.Filter != "" {
		pattern := addArg("%" + escapeLike(q.Filter) + "%")
		searched := []string{
			"p.headline", "p.synopsis", "p.main_story",
			"o.name", "o.slug",
			"u.first_name", "u.last_name", "TRIM(u.first_name || ' ' || u.last_name)",
		}
		matches := make([]string, 0, len(searched))
		for _, col := range searched {
			matches = append(matches, fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, pattern))
		}
		whereClauses = append(whereClauses, "("+strings.Join(matches, " OR ")+")")
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	sortOrder := "DESC"
	if q.EffectiveAscending() {
		sortOrder = "ASC"
	}
	sortColumn := posts.SortTime.Column()
	if q.Sort != "" {
		sortColumn = q.Sort.Column()
	}

	count := fmt.Sprintf(`SELECT COUNT(*) %s %s`, postFrom, whereClause)

	pageArgs := append([]any{}, args...)
	limitClause := ""
	if q.Limit > 0 {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argCount, argCount+1)
		pageArgs = append(pageArgs, q.Limit, q.Offset)
	} else if q.Offset > 0 {
		limitClause = fmt.Sprintf("OFFSET $%d", argCount)
		pageArgs = append(pageArgs, q.Offset)
	}

	page := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY p.%s %s, p.id %s
		%s`,
		postColumns, postFrom, whereClause, sortColumn, sortOrder, sortOrder, limitClause)

	return listQuery{count: count, page: page, args: args, pageArgs: pageArgs}
}

// escapeLike makes LIKE wildcards in s match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	var synopsis, imageURL sql.NullString
	var organizationID sql.NullInt64
	var state string

	err := row.Scan(
		&post.ID, &post.Headline, &synopsis, &post.MainStory, &post.Slug, &imageURL,
		&state, &post.AuthorID, &organizationID, &post.Time, &post.ModificationDate,
	)
	if err != nil {
		return nil, err
	}

	post.State = posts.State(state)
	post.Synopsis = stringPtr(synopsis)
	post.ImageURL = stringPtr(imageURL)
	if organizationID.Valid {
		id := organizationID.Int64
		post.OrganizationID = &id
	}
	post.Time = post.Time.UTC()
	post.ModificationDate = post.ModificationDate.UTC()

	return &post, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
