package posts

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"Newsroom/internal/core/organizations"
	"Newsroom/internal/core/permissions"
	"Newsroom/internal/core/users"
)

// memoryStore is an in-memory Repository that also serves as the user and
// organization directory. memoryTx snapshots it so failed units of work roll back.
type memoryStore struct {
	mu     sync.Mutex
	posts  map[int64]*Post
	nextID int64

	users map[int64]*users.User
	orgs  map[int64]*organizations.Organization

	// createHook runs before every insert; a non-nil error aborts the insert
	createHook  func(post *Post) error
	createCalls int
	maxIDCalls  int
	userLookups int
	userBatches int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		posts:  make(map[int64]*Post),
		nextID: 1,
		users:  make(map[int64]*users.User),
		orgs:   make(map[int64]*organizations.Organization),
	}
}

func (m *memoryStore) addUser(u *users.User) *users.User {
	m.users[u.ID] = u
	return u
}

func (m *memoryStore) addOrg(o *organizations.Organization) *organizations.Organization {
	m.orgs[o.ID] = o
	return o
}

// seed stores a post directly, bypassing the facade
func (m *memoryStore) seed(p Post) *Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextID
	}
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	m.posts[p.ID] = &p
	return &p
}

func (m *memoryStore) get(id int64) *Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

func (m *memoryStore) slugTakenLocked(slug string, exceptID int64) bool {
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *memoryStore) Create(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++

	if m.createHook != nil {
		if err := m.createHook(post); err != nil {
			return err
		}
	}
	if m.slugTakenLocked(post.Slug, 0) {
		return fmt.Errorf("insert news post: %w", ErrSlugTaken)
	}

	post.ID = m.nextID
	m.nextID++
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memoryStore) GetByID(ctx context.Context, id int64) (*Post, error) {
	if p := m.get(id); p != nil {
		return p, nil
	}
	return nil, NewNotFoundError("post", strconv.FormatInt(id, 10))
}

func (m *memoryStore) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, NewNotFoundError("post", slug)
}

func (m *memoryStore) Update(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return NewNotFoundError("post", strconv.FormatInt(post.ID, 10))
	}
	if m.slugTakenLocked(post.Slug, post.ID) {
		return fmt.Errorf("update news post: %w", ErrSlugTaken)
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return NewNotFoundError("post", strconv.FormatInt(id, 10))
	}
	delete(m.posts, id)
	return nil
}

func (m *memoryStore) MaxID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxIDCalls++
	var maxID int64
	for id := range m.posts {
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

func (m *memoryStore) List(ctx context.Context, q Query) ([]*Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*Post
	for _, p := range m.posts {
		var org *organizations.Organization
		if p.OrganizationID != nil {
			org = m.orgs[*p.OrganizationID]
		}
		if matchesQuery(q, p, m.users[p.AuthorID], org) {
			cp := *p
			matched = append(matched, &cp)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return compareQuery(q, matched[i], matched[j]) < 0
	})
	return pageQuery(q, matched), len(matched), nil
}

func (m *memoryStore) GetUserByID(ctx context.Context, id int64) (*users.User, error) {
	m.userLookups++
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %d: %w", id, users.ErrUserNotFound)
}

func (m *memoryStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*users.User, error) {
	m.userBatches++
	found := make(map[int64]*users.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

func (m *memoryStore) GetByOrganizationID(ctx context.Context, id int64) (*organizations.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, organizations.ErrOrganizationNotFound
}

// orgDirectory adapts memoryStore to OrganizationDirectory; GetByID is taken by the post repository
type orgDirectory struct{ store *memoryStore }

func (d orgDirectory) GetByID(ctx context.Context, id int64) (*organizations.Organization, error) {
	return d.store.GetByOrganizationID(ctx, id)
}

func (d orgDirectory) GetBySlug(ctx context.Context, slug string) (*organizations.Organization, error) {
	for _, o := range d.store.orgs {
		if o.Slug == slug {
			return o, nil
		}
	}
	return nil, organizations.ErrOrganizationNotFound
}

// memoryTx restores the store's posts when fn fails
type memoryTx struct {
	store     *memoryStore
	rollbacks int
}

func (t *memoryTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	snapshot := make(map[int64]*Post, len(t.store.posts))
	for id, p := range t.store.posts {
		cp := *p
		snapshot[id] = &cp
	}
	nextID := t.store.nextID
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.posts = snapshot
		t.store.nextID = nextID
		t.store.mu.Unlock()
		t.rollbacks++
		return err
	}
	return nil
}

// grantAuthorizer holds exact (action, resource) grants per user.
// Root users pass every check.
type grantAuthorizer struct {
	grants map[int64]map[string]bool
	root   map[int64]bool
	calls  []string
}

func newGrantAuthorizer() *grantAuthorizer {
	return &grantAuthorizer{
		grants: make(map[int64]map[string]bool),
		root:   make(map[int64]bool),
	}
}

func (a *grantAuthorizer) grant(userID int64, action, resource string) {
	if a.grants[userID] == nil {
		a.grants[userID] = make(map[string]bool)
	}
	a.grants[userID][action+" "+resource] = true
}

func (a *grantAuthorizer) Enforce(ctx context.Context, subject *users.User, action, resource string) error {
	a.calls = append(a.calls, action+" "+resource)
	if subject != nil && (a.root[subject.ID] || a.grants[subject.ID][action+" "+resource]) {
		return nil
	}
	return &permissions.PermissionError{Action: action, Resource: resource}
}

var memorySortKeys = map[SortField]func(a, b *Post) int{
	SortID:       func(a, b *Post) int { return cmp.Compare(a.ID, b.ID) },
	SortHeadline: func(a, b *Post) int { return strings.Compare(a.Headline, b.Headline) },
	SortSlug:     func(a, b *Post) int { return strings.Compare(a.Slug, b.Slug) },
	SortState:    func(a, b *Post) int { return strings.Compare(string(a.State), string(b.State)) },
	SortTime:     func(a, b *Post) int { return a.Time.Compare(b.Time) },
	SortModificationDate: func(a, b *Post) int {
		return a.ModificationDate.Compare(b.ModificationDate)
	},
}

// matchesQuery is the in-memory counterpart of the WHERE clause post_repo.go builds
func matchesQuery(q Query, post *Post, author *users.User, org *organizations.Organization) bool {
	if q.State != "" && post.State != q.State {
		return false
	}
	if q.AuthorID != 0 && post.AuthorID != q.AuthorID {
		return false
	}
	if q.OrganizationID != 0 && (post.OrganizationID == nil || *post.OrganizationID != q.OrganizationID) {
		return false
	}
	if q.RangeStart != nil && post.Time.Before(*q.RangeStart) {
		return false
	}
	if q.RangeEnd != nil && post.Time.After(*q.RangeEnd) {
		return false
	}
	if q.Filter == "" {
		return true
	}

	needle := strings.ToLower(q.Filter)
	haystack := []string{post.Headline, post.MainStory}
	if post.Synopsis != nil {
		haystack = append(haystack, *post.Synopsis)
	}
	if org != nil {
		haystack = append(haystack, org.Name, org.Slug)
	}
	if author != nil {
		haystack = append(haystack, author.FirstName, author.LastName, author.FullName())
	}
	for _, s := range haystack {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// compareQuery orders by q's sort field with id as the tie breaker, both in the effective direction
func compareQuery(q Query, a, b *Post) int {
	key, ok := memorySortKeys[q.Sort]
	if !ok {
		key = memorySortKeys[SortTime]
	}
	c := key(a, b)
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	if !q.EffectiveAscending() {
		c = -c
	}
	return c
}

func pageQuery(q Query, items []*Post) []*Post {
	if q.Offset >= len(items) {
		return []*Post{}
	}
	items = items[q.Offset:]
	if q.Limit > 0 && q.Limit < len(items) {
		items = items[:q.Limit]
	}
	return items
}
