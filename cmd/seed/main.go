// Seed loads a development database with a few users, an organization and
// posts in every lifecycle state. Re-running it skips records that already exist.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"Newsroom/internal/config"
	"Newsroom/internal/core/organizations"
	"Newsroom/internal/core/permissions"
	"Newsroom/internal/core/posts"
	"Newsroom/internal/core/users"
	"Newsroom/internal/db/migrations"
	postgresRepo "Newsroom/internal/db/postgres"
)

var seedUsers = []users.CreateUserRequest{
	{Onyen: "admin", FirstName: "Site", LastName: "Admin", Email: "admin@unc.edu", PID: 100000001},
	{Onyen: "alovelace", FirstName: "Ada", LastName: "Lovelace", Email: "ada@unc.edu", PID: 100000002},
	{Onyen: "ghopper", FirstName: "Grace", LastName: "Hopper", Email: "grace@unc.edu", PID: 100000003},
}

var seedOrganization = organizations.CreateOrganizationRequest{
	Name:             "The Daily Tar Heel",
	Shorthand:        "DTH",
	Slug:             "dth",
	ShortDescription: "Student newspaper",
	Public:           true,
}

func main() {
	config.LoadDotEnvs()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.ConfigureLogging(cfg.LogLevel, true)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	if err := seed(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Msg("Seed complete")
}

func seed(ctx context.Context, db *sql.DB) error {
	userService := users.NewUserService(postgresRepo.NewUserRepository(db))
	orgService := organizations.NewOrganizationService(postgresRepo.NewOrganizationRepository(db))
	permissionService := permissions.NewPermissionService(postgresRepo.NewPermissionRepository(db))
	postService := posts.NewPostService(
		postgresRepo.NewPostRepository(db),
		postgresRepo.NewTransactor(db),
		permissionService,
		userService,
		orgService,
	)

	people := make([]*users.User, 0, len(seedUsers))
	for _, req := range seedUsers {
		u, err := ensureUser(ctx, userService, req)
		if err != nil {
			return err
		}
		people = append(people, u)
	}
	admin, author := people[0], people[1]

	// Grants are idempotent
	if _, err := permissionService.Grant(ctx, admin.ID, "*", "*"); err != nil {
		return fmt.Errorf("grant root: %w", err)
	}

	org, err := orgService.GetBySlug(ctx, seedOrganization.Slug)
	if organizations.IsNotFound(err) {
		org, err = orgService.CreateOrganization(ctx, seedOrganization)
	}
	if err != nil {
		return fmt.Errorf("organization %s: %w", seedOrganization.Slug, err)
	}

	synopsis := "A short summary for the front page."
	states := []posts.State{posts.StatePublished, posts.StatePublished, posts.StateIncoming, posts.StateDraft, posts.StateArchived}
	for i, state := range states {
		slug := fmt.Sprintf("welcome-%d", i+1)
		if _, err := postService.GetBySlug(ctx, slug); err == nil {
			log.Debug().Str("slug", slug).Msg("post already seeded")
			continue
		} else if !posts.IsNotFound(err) {
			return err
		}

		post := &posts.Post{
			Headline:       fmt.Sprintf("Welcome to the newsroom, part %d", i+1),
			MainStory:      "Seeded story body.",
			Synopsis:       &synopsis,
			Slug:           slug,
			State:          state,
			AuthorID:       author.ID,
			OrganizationID: &org.ID,
		}
		if _, err := postService.CreatePost(ctx, admin, post); err != nil {
			return fmt.Errorf("create post %s: %w", slug, err)
		}
	}
	return nil
}

func ensureUser(ctx context.Context, service users.UserService, req users.CreateUserRequest) (*users.User, error) {
	u, err := service.GetUserByOnyen(ctx, req.Onyen)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("user %s: %w", req.Onyen, err)
	}

	u, err = service.CreateUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", req.Onyen, err)
	}
	log.Info().Str("onyen", u.Onyen).Int64("id", u.ID).Msg("seeded user")
	return u, nil
}
