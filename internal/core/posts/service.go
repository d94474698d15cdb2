package posts

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"Newsroom/internal/core/organizations"
	"Newsroom/internal/core/users"
)

// slugPattern keeps slugs URL-safe without escaping
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

const (
	maxHeadlineLength = 300
	maxSlugLength     = 200

	// authorBatchSize keeps each author lookup under the user directory's batch limit
	authorBatchSize = 500
)

type postService struct {
	repo   Repository
	tx     Transactor
	policy *Policy
	slugs  slugResolver
	users  UserDirectory
	orgs   OrganizationDirectory
	now    func() time.Time
}

// NewPostService creates the news post facade
func NewPostService(
	repo Repository,
	tx Transactor,
	authorizer Authorizer,
	userDir UserDirectory,
	orgDir OrganizationDirectory,
) Service {
	return &postService{
		repo:   repo,
		tx:     tx,
		policy: NewPolicy(authorizer),
		slugs:  slugResolver{repo: repo, tx: tx},
		users:  userDir,
		orgs:   orgDir,
		now:    time.Now,
	}
}

// CreatePost stores a new post authored by subject unless post names another author.
// The caller's ID is ignored and both timestamps are set to now.
func (s *postService) CreatePost(ctx context.Context, subject *users.User, post *Post) (*PostDetails, error) {
	if err := s.policy.Authorize(ctx, OpCreate, subject, Target{}); err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NewValidationError("post", "post is required")
	}

	p := *post
	p.ID = 0
	if p.AuthorID == 0 {
		p.AuthorID = subject.ID
	}
	if p.State == "" {
		p.State = StateIncoming
	}
	if err := validatePost(&p); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p.Time = now
	p.ModificationDate = now

	// Resolve references before writing so a bad author or organization never reaches storage
	details, err := s.newLoader().details(ctx, &p)
	if err != nil {
		return nil, err
	}

	requested := p.Slug
	if err := s.slugs.create(ctx, &p); err != nil {
		return nil, err
	}
	if p.Slug != requested {
		log.Info().Str("requested", requested).Str("slug", p.Slug).Msg("news post slug was taken, suffixed")
	}

	log.Info().
		Int64("post_id", p.ID).
		Int64("author_id", p.AuthorID).
		Str("state", string(p.State)).
		Msg("news post created")

	details.Post = p
	return details, nil
}

// UpdatePost overwrites the stored post with post.ID. Authorization is judged on the
// stored post, so an author can't publish their own draft and keep editing it.
func (s *postService) UpdatePost(ctx context.Context, subject *users.User, post *Post) (*PostDetails, error) {
	if post == nil {
		return nil, NewValidationError("post", "post is required")
	}
	if post.ID == 0 {
		return nil, NewValidationError("id", "id is required to update a post")
	}

	p := *post
	var details *PostDetails

	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}

		target := Target{Slug: existing.Slug, State: existing.State, AuthorID: existing.AuthorID}
		if err := s.policy.Authorize(ctx, OpUpdate, subject, target); err != nil {
			return err
		}

		// Moving a post to another author is never self-service
		if p.AuthorID == 0 {
			p.AuthorID = existing.AuthorID
		} else if p.AuthorID != existing.AuthorID {
			if err := s.policy.Authorize(ctx, OpReassign, subject, target); err != nil {
				return err
			}
		}
		if p.State == "" {
			p.State = existing.State
		}
		if p.Time.IsZero() {
			p.Time = existing.Time
		}
		if err := validatePost(&p); err != nil {
			return err
		}
		p.ModificationDate = s.now().UTC()

		details, err = s.newLoader().details(ctx, &p)
		if err != nil {
			return err
		}
		return s.repo.Update(ctx, &p)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("post_id", p.ID).
		Int64("subject_id", subject.ID).
		Str("state", string(p.State)).
		Msg("news post updated")

	details.Post = p
	return details, nil
}

// DeletePost permanently removes the post with slug, whatever its state
func (s *postService) DeletePost(ctx context.Context, subject *users.User, slug string) error {
	if err := s.policy.Authorize(ctx, OpDelete, subject, Target{Slug: slug}); err != nil {
		return err
	}

	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		return s.repo.Delete(ctx, existing.ID)
	})
	if err != nil {
		return err
	}

	log.Info().Str("slug", slug).Int64("subject_id", subject.ID).Msg("news post deleted")
	return nil
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*PostDetails, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.newLoader().details(ctx, post)
}

func (s *postService) GetByID(ctx context.Context, id int64) (*PostDetails, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.newLoader().details(ctx, post)
}

func (s *postService) GetAll(ctx context.Context, subject *users.User) ([]*PostDetails, error) {
	return s.listState(ctx, subject, "")
}

func (s *postService) GetPublished(ctx context.Context) ([]*PostDetails, error) {
	return s.listState(ctx, nil, StatePublished)
}

func (s *postService) GetIncoming(ctx context.Context, subject *users.User) ([]*PostDetails, error) {
	return s.listState(ctx, subject, StateIncoming)
}

func (s *postService) GetDrafts(ctx context.Context, subject *users.User) ([]*PostDetails, error) {
	return s.listState(ctx, subject, StateDraft)
}

func (s *postService) GetArchived(ctx context.Context, subject *users.User) ([]*PostDetails, error) {
	return s.listState(ctx, subject, StateArchived)
}

// GetByOrganization lists the organization's published posts
func (s *postService) GetByOrganization(ctx context.Context, orgSlug string) ([]*PostDetails, error) {
	if err := s.policy.Authorize(ctx, OpListByOrganization, nil, Target{}); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetBySlug(ctx, orgSlug)
	if err != nil {
		if organizations.IsNotFound(err) {
			return nil, NewNotFoundError("organization", orgSlug)
		}
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	items, _, err := s.list(ctx, newestFirst(Query{State: StatePublished, OrganizationID: org.ID}))
	return items, err
}

// GetByAuthor lists the author's published posts
func (s *postService) GetByAuthor(ctx context.Context, authorID int64) ([]*PostDetails, error) {
	if err := s.policy.Authorize(ctx, OpListByAuthor, nil, Target{AuthorID: authorID}); err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return nil, err
	}

	items, _, err := s.list(ctx, newestFirst(Query{State: StatePublished, AuthorID: authorID}))
	return items, err
}

// GetDraftsByAuthor lists an author's drafts for the author or a holder of user.posts
func (s *postService) GetDraftsByAuthor(ctx context.Context, subject *users.User, authorID int64) ([]*PostDetails, error) {
	if err := s.policy.Authorize(ctx, OpDraftsByAuthor, subject, Target{AuthorID: authorID}); err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return nil, err
	}

	items, _, err := s.list(ctx, newestFirst(Query{State: StateDraft, AuthorID: authorID}))
	return items, err
}

// ListPaginated runs the paginated query. Anonymous callers only ever see published
// posts; authenticated callers choose a state (empty for all) and need its listing grant.
func (s *postService) ListPaginated(ctx context.Context, params PaginationParams, subject *users.User) (*Paginated, error) {
	scope := StatePublished
	if subject != nil {
		scope = params.State
		if scope != "" && !scope.Valid() {
			return nil, NewValidationError("state", "state must be one of draft, incoming, published, archived")
		}
	}
	params.State = scope

	if err := s.policy.Authorize(ctx, listingOperation(scope), subject, Target{}); err != nil {
		return nil, err
	}

	q, err := BuildQuery(params, scope)
	if err != nil {
		return nil, err
	}
	params.OrderBy = string(q.Sort)

	items, total, err := s.list(ctx, q)
	if err != nil {
		return nil, err
	}

	return &Paginated{
		Items:  items,
		Length: total,
		Params: params,
	}, nil
}

// listState serves the non-paginated state listings, newest first
func (s *postService) listState(ctx context.Context, subject *users.User, state State) ([]*PostDetails, error) {
	if err := s.policy.Authorize(ctx, listingOperation(state), subject, Target{}); err != nil {
		return nil, err
	}
	items, _, err := s.list(ctx, newestFirst(Query{State: state}))
	return items, err
}

func (s *postService) list(ctx context.Context, q Query) ([]*PostDetails, int, error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	loader := s.newLoader()
	if err := loader.prefetchAuthors(ctx, rows); err != nil {
		return nil, 0, err
	}
	items := make([]*PostDetails, 0, len(rows))
	for _, row := range rows {
		d, err := loader.details(ctx, row)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

func (s *postService) requireAuthor(ctx context.Context, authorID int64) error {
	if _, err := s.newLoader().author(ctx, authorID); err != nil {
		return err
	}
	return nil
}

func validatePost(p *Post) error {
	p.Headline = strings.TrimSpace(p.Headline)
	p.Slug = strings.TrimSpace(p.Slug)

	if p.Headline == "" {
		return NewValidationError("headline", "headline is required")
	}
	if utf8.RuneCountInString(p.Headline) > maxHeadlineLength {
		return NewValidationError("headline",
			fmt.Sprintf("headline must be at most %d characters", maxHeadlineLength))
	}
	if strings.TrimSpace(p.MainStory) == "" {
		return NewValidationError("main_story", "main_story is required")
	}
	if p.Slug == "" {
		return NewValidationError("slug", "slug is required")
	}
	if len(p.Slug) > maxSlugLength || !slugPattern.MatchString(p.Slug) {
		return NewValidationError("slug", "slug may only contain letters, digits, '-' and '_'")
	}
	if !p.State.Valid() {
		return NewValidationError("state", "state must be one of draft, incoming, published, archived")
	}
	if p.AuthorID <= 0 {
		return NewValidationError("author_id", "author_id must be positive")
	}
	if p.OrganizationID != nil && *p.OrganizationID <= 0 {
		return NewValidationError("organization_id", "organization_id must be positive")
	}
	return nil
}

// detailsLoader resolves authors and organizations, remembering each one for the
// lifetime of a single facade call
type detailsLoader struct {
	users   UserDirectory
	orgs    OrganizationDirectory
	authors map[int64]*users.User
	groups  map[int64]*organizations.Organization
}

func (s *postService) newLoader() *detailsLoader {
	return &detailsLoader{
		users:   s.users,
		orgs:    s.orgs,
		authors: make(map[int64]*users.User),
		groups:  make(map[int64]*organizations.Organization),
	}
}

func (l *detailsLoader) details(ctx context.Context, post *Post) (*PostDetails, error) {
	author, err := l.author(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	var org *organizations.Organization
	if post.OrganizationID != nil {
		org, err = l.organization(ctx, *post.OrganizationID)
		if err != nil {
			return nil, err
		}
	}

	return &PostDetails{Post: *post, Author: author, Organization: org}, nil
}

// prefetchAuthors resolves the authors of rows with batched directory lookups.
// Authors the batch doesn't return are left for author to report as not found.
func (l *detailsLoader) prefetchAuthors(ctx context.Context, rows []*Post) error {
	var pending []int64
	queued := make(map[int64]bool)
	for _, row := range rows {
		if _, ok := l.authors[row.AuthorID]; ok || queued[row.AuthorID] {
			continue
		}
		queued[row.AuthorID] = true
		pending = append(pending, row.AuthorID)
	}

	for len(pending) > 0 {
		n := min(len(pending), authorBatchSize)
		found, err := l.users.GetUsersByIDs(ctx, pending[:n])
		if err != nil {
			return fmt.Errorf("failed to resolve authors: %w", err)
		}
		for id, u := range found {
			l.authors[id] = u
		}
		pending = pending[n:]
	}
	return nil
}

func (l *detailsLoader) author(ctx context.Context, id int64) (*users.User, error) {
	if u, ok := l.authors[id]; ok {
		return u, nil
	}
	u, err := l.users.GetUserByID(ctx, id)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, NewNotFoundError("user", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}
	l.authors[id] = u
	return u, nil
}

func (l *detailsLoader) organization(ctx context.Context, id int64) (*organizations.Organization, error) {
	if o, ok := l.groups[id]; ok {
		return o, nil
	}
	o, err := l.orgs.GetByID(ctx, id)
	if err != nil {
		if organizations.IsNotFound(err) {
			return nil, NewNotFoundError("organization", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}
	l.groups[id] = o
	return o, nil
}
