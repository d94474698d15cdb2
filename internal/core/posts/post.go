package posts

import (
	"time"

	"Newsroom/internal/core/organizations"
	"Newsroom/internal/core/users"
)

// State is a news post's lifecycle state
type State string

const (
	// StateDraft is the author's private working copy
	StateDraft State = "draft"
	// StateIncoming is submitted and waiting for review
	StateIncoming State = "incoming"
	// StatePublished is visible in public listings
	StatePublished State = "published"
	// StateArchived is retired from default listings but kept
	StateArchived State = "archived"
)

// Valid reports whether s is one of the four lifecycle states
func (s State) Valid() bool {
	switch s {
	case StateDraft, StateIncoming, StatePublished, StateArchived:
		return true
	}
	return false
}

// ParseState converts user input into a State
func ParseState(s string) (State, error) {
	state := State(s)
	if !state.Valid() {
		return "", NewValidationError("state",
			"state must be one of draft, incoming, published, archived")
	}
	return state, nil
}

// Post is a news article record
type Post struct {
	Time             time.Time `json:"time" db:"time"`
	ModificationDate time.Time `json:"modification_date" db:"modification_date"`
	Synopsis         *string   `json:"synopsis" db:"synopsis"`
	ImageURL         *string   `json:"image_url" db:"image_url"`
	OrganizationID   *int64    `json:"organization_id" db:"organization_id"`
	Headline         string    `json:"headline" db:"headline"`
	MainStory        string    `json:"main_story" db:"main_story"`
	Slug             string    `json:"slug" db:"slug"`
	State            State     `json:"state" db:"state"`
	ID               int64     `json:"id" db:"id"`
	AuthorID         int64     `json:"author_id" db:"author_id"`
}

// PostDetails is a Post with its author and organization resolved.
// Organization is nil when the post isn't attributed to one.
type PostDetails struct {
	Author       *users.User                 `json:"author"`
	Organization *organizations.Organization `json:"organization"`
	Post
}
