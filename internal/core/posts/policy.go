package posts

import (
	"context"
	"fmt"
	"strconv"

	"Newsroom/internal/core/users"
)

// Operation names a gated facade operation
type Operation string

const (
	OpCreate             Operation = "create"
	OpUpdate             Operation = "update"
	OpReassign           Operation = "reassign"
	OpDelete             Operation = "delete"
	OpGet                Operation = "get"
	OpListAll            Operation = "list_all"
	OpListPublished      Operation = "list_published"
	OpListDrafts         Operation = "list_drafts"
	OpListIncoming       Operation = "list_incoming"
	OpListArchived       Operation = "list_archived"
	OpListByOrganization Operation = "list_by_organization"
	OpListByAuthor       Operation = "list_by_author"
	OpDraftsByAuthor     Operation = "drafts_by_author"
)

// Permission actions checked against the authorization oracle
const (
	ActionUpdate      = "news_post.update"
	ActionDelete      = "news_post.delete"
	ActionGet         = "news_post.get"
	ActionDrafts      = "news_post.drafts"
	ActionIncoming    = "news_post.incoming"
	ActionArchived    = "news_post.archived"
	ActionAuthorPosts = "user.posts"

	collectionResource = "news_post"
)

// Target is what an operation acts on. AuthorID is the post's author for
// single-post operations and the listed author for author listings.
type Target struct {
	Slug     string
	State    State
	AuthorID int64
}

type rule struct {
	// public rules need no actor at all
	public bool
	// authenticated rules need an actor but no grant
	authenticated bool
	// selfService exempts the target's own author when it returns true for the target state
	selfService func(State) bool
	action      string
	resource    func(Target) string
}

func collection(Target) string { return collectionResource }

func postResource(t Target) string { return collectionResource + "/" + t.Slug }

func authorResource(t Target) string { return "user/" + strconv.FormatInt(t.AuthorID, 10) }

func unpublished(s State) bool { return s == StateDraft || s == StateIncoming }

func always(State) bool { return true }

var lifecyclePolicy = map[Operation]rule{
	OpCreate:             {authenticated: true},
	OpUpdate:             {selfService: unpublished, action: ActionUpdate, resource: postResource},
	OpReassign:           {action: ActionUpdate, resource: postResource},
	OpDelete:             {action: ActionDelete, resource: collection},
	OpGet:                {public: true},
	OpListAll:            {action: ActionGet, resource: collection},
	OpListPublished:      {public: true},
	OpListDrafts:         {action: ActionDrafts, resource: collection},
	OpListIncoming:       {action: ActionIncoming, resource: collection},
	OpListArchived:       {action: ActionArchived, resource: collection},
	OpListByOrganization: {public: true},
	OpListByAuthor:       {public: true},
	OpDraftsByAuthor:     {selfService: always, action: ActionAuthorPosts, resource: authorResource},
}

// stateListings maps a single-state scope onto the listing operation that guards it
var stateListings = map[State]Operation{
	StatePublished: OpListPublished,
	StateDraft:     OpListDrafts,
	StateIncoming:  OpListIncoming,
	StateArchived:  OpListArchived,
}

// Requirement is the policy's verdict for one call.
// An empty Action means no oracle check is needed.
type Requirement struct {
	Action   string
	Resource string
}

// NeedsOracle reports whether the authorization oracle must be consulted
func (r Requirement) NeedsOracle() bool {
	return r.Action != ""
}

// Require evaluates the lifecycle policy for op without consulting the oracle
func Require(op Operation, subject *users.User, target Target) (Requirement, error) {
	r, ok := lifecyclePolicy[op]
	if !ok {
		return Requirement{}, fmt.Errorf("no policy for operation %q", op)
	}

	if r.public {
		return Requirement{}, nil
	}
	if subject == nil {
		return Requirement{}, ErrNotAuthenticated
	}
	if r.authenticated {
		return Requirement{}, nil
	}
	if r.selfService != nil && subject.ID == target.AuthorID && r.selfService(target.State) {
		return Requirement{}, nil
	}

	return Requirement{Action: r.action, Resource: r.resource(target)}, nil
}

// Policy applies the lifecycle table and defers elevated checks to the oracle
type Policy struct {
	authorizer Authorizer
}

// NewPolicy creates a lifecycle policy backed by the given oracle
func NewPolicy(authorizer Authorizer) *Policy {
	return &Policy{authorizer: authorizer}
}

// Authorize returns nil when subject may perform op on target.
// Oracle errors are returned unmodified.
func (p *Policy) Authorize(ctx context.Context, op Operation, subject *users.User, target Target) error {
	req, err := Require(op, subject, target)
	if err != nil {
		return err
	}
	if !req.NeedsOracle() {
		return nil
	}
	return p.authorizer.Enforce(ctx, subject, req.Action, req.Resource)
}

// listingOperation returns the operation guarding a listing over state; "" means all states
func listingOperation(state State) Operation {
	if state == "" {
		return OpListAll
	}
	return stateListings[state]
}
