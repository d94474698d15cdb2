package posts

import (
	"context"
	"errors"
	"fmt"
)

// slugResolver inserts posts whose slug may already be in use.
// The first attempt keeps the slug as given; on a collision the whole
// transaction is rolled back and one more attempt is made with the slug
// suffixed by the next free id.
type slugResolver struct {
	repo Repository
	tx   Transactor
}

func (r slugResolver) create(ctx context.Context, post *Post) error {
	err := r.insert(ctx, post)
	if err == nil || !errors.Is(err, ErrSlugTaken) {
		return err
	}

	maxID, err := r.repo.MaxID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read max post id: %w", err)
	}

	taken := post.Slug
	post.Slug = fmt.Sprintf("%s-%d", taken, maxID+1)

	err = r.insert(ctx, post)
	if errors.Is(err, ErrSlugTaken) {
		return fmt.Errorf("%w: slug %q collided twice (%q)", ErrWriteFailed, taken, post.Slug)
	}
	return err
}

func (r slugResolver) insert(ctx context.Context, post *Post) error {
	post.ID = 0
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		return r.repo.Create(ctx, post)
	})
}
