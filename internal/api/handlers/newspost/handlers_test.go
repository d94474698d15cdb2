package newspost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Newsroom/internal/api/middleware"
	"Newsroom/internal/core/permissions"
	"Newsroom/internal/core/posts"
	"Newsroom/internal/core/users"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) details(args mock.Arguments) (*posts.PostDetails, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.PostDetails), args.Error(1)
}

func (m *mockService) list(args mock.Arguments) ([]*posts.PostDetails, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*posts.PostDetails), args.Error(1)
}

func (m *mockService) CreatePost(ctx context.Context, subject *users.User, post *posts.Post) (*posts.PostDetails, error) {
	return m.details(m.Called(ctx, subject, post))
}

func (m *mockService) UpdatePost(ctx context.Context, subject *users.User, post *posts.Post) (*posts.PostDetails, error) {
	return m.details(m.Called(ctx, subject, post))
}

func (m *mockService) DeletePost(ctx context.Context, subject *users.User, slug string) error {
	return m.Called(ctx, subject, slug).Error(0)
}

func (m *mockService) GetBySlug(ctx context.Context, slug string) (*posts.PostDetails, error) {
	return m.details(m.Called(ctx, slug))
}

func (m *mockService) GetByID(ctx context.Context, id int64) (*posts.PostDetails, error) {
	return m.details(m.Called(ctx, id))
}

func (m *mockService) GetAll(ctx context.Context, subject *users.User) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, subject))
}

func (m *mockService) GetPublished(ctx context.Context) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx))
}

func (m *mockService) GetIncoming(ctx context.Context, subject *users.User) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, subject))
}

func (m *mockService) GetDrafts(ctx context.Context, subject *users.User) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, subject))
}

func (m *mockService) GetArchived(ctx context.Context, subject *users.User) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, subject))
}

func (m *mockService) GetByOrganization(ctx context.Context, orgSlug string) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, orgSlug))
}

func (m *mockService) GetByAuthor(ctx context.Context, authorID int64) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, authorID))
}

func (m *mockService) GetDraftsByAuthor(ctx context.Context, subject *users.User, authorID int64) ([]*posts.PostDetails, error) {
	return m.list(m.Called(ctx, subject, authorID))
}

func (m *mockService) ListPaginated(ctx context.Context, params posts.PaginationParams, subject *users.User) (*posts.Paginated, error) {
	args := m.Called(ctx, params, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Paginated), args.Error(1)
}

// newTestRouter mounts the handlers the way the routes package does, with subject
// standing in for the auth middleware
func newTestRouter(svc posts.Service, subject *users.User) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if subject != nil {
				req = req.WithContext(middleware.SetTestSubject(req.Context(), subject))
			}
			next.ServeHTTP(w, req)
		})
	})

	get := NewGetHandler(svc)
	list := NewListHandler(svc)
	admin := NewAdminHandler(svc)
	del := NewDeleteHandler(svc)

	r.Get("/api/news_posts", get.HandleListPublished)
	r.Get("/api/news_posts/paginate", list.HandlePaginated)
	r.Get("/api/news_posts/id/{id}", get.HandleGetByID)
	r.Get("/api/news_posts/organization/{slug}", get.HandleByOrganization)
	r.Get("/api/news_posts/author/{id}", get.HandleByAuthor)
	r.Get("/api/news_posts/author/{id}/drafts", get.HandleDraftsByAuthor)
	r.Get("/api/news_posts/{slug}", get.HandleGetBySlug)
	r.Post("/api/news_posts", NewCreateHandler(svc).HandleCreate)
	r.Put("/api/news_posts", NewUpdateHandler(svc).HandleUpdate)
	r.Delete("/api/news_posts", del.HandleDelete)
	r.Delete("/api/news_posts/{slug}", del.HandleDelete)
	r.Get("/api/admin/news", list.HandleAdminPaginated)
	r.Get("/api/admin/news/all", admin.HandleAll)
	r.Get("/api/admin/news/drafts", admin.HandleDrafts)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

var ada = &users.User{ID: 2, FirstName: "Ada", LastName: "Lovelace"}

func TestHandleCreate(t *testing.T) {
	svc := new(mockService)
	created := &posts.PostDetails{Post: posts.Post{ID: 9, Slug: "budget", State: posts.StateIncoming}, Author: ada}
	svc.On("CreatePost", mock.Anything, ada, mock.MatchedBy(func(p *posts.Post) bool {
		return p.Headline == "Budget passes" && p.Slug == "budget"
	})).Return(created, nil)

	w := serve(newTestRouter(svc, ada), http.MethodPost, "/api/news_posts",
		`{"headline":"Budget passes","main_story":"...","slug":"budget"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "budget", got["slug"])
	assert.Equal(t, "incoming", got["state"])
	assert.Equal(t, "Ada", got["author"].(map[string]any)["first_name"])
	assert.Nil(t, got["organization"])
	svc.AssertExpectations(t)
}

func TestHandleCreate_BadBody(t *testing.T) {
	svc := new(mockService)

	w := serve(newTestRouter(svc, ada), http.MethodPost, "/api/news_posts", `{"headline":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", decodeError(t, w)["error"])
	svc.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
	}{
		{"not authenticated", posts.ErrNotAuthenticated, http.StatusUnauthorized, "AuthenticationRequired"},
		{"permission", &permissions.PermissionError{Action: "news_post.update", Resource: "news_post/x"}, http.StatusForbidden, "PermissionDenied"},
		{"not found", posts.NewNotFoundError("post", "1"), http.StatusNotFound, "NotFound"},
		{"slug taken", fmt.Errorf("update: %w", posts.ErrSlugTaken), http.StatusConflict, "SlugTaken"},
		{"validation", posts.NewValidationError("headline", "headline is required"), http.StatusBadRequest, "InvalidRequest"},
		{"write failed", fmt.Errorf("%w: twice", posts.ErrWriteFailed), http.StatusInternalServerError, "WriteFailed"},
		{"unexpected", fmt.Errorf("connection refused"), http.StatusInternalServerError, "InternalServerError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("UpdatePost", mock.Anything, ada, mock.Anything).Return(nil, tt.err)

			w := serve(newTestRouter(svc, ada), http.MethodPut, "/api/news_posts",
				`{"id":1,"headline":"h","main_story":"m","slug":"x"}`)

			assert.Equal(t, tt.wantCode, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantError == "InternalServerError" {
				assert.NotContains(t, body["message"], "connection refused")
			}
		})
	}
}

func TestHandleDelete(t *testing.T) {
	svc := new(mockService)
	svc.On("DeletePost", mock.Anything, ada, "old-news").Return(nil).Twice()

	router := newTestRouter(svc, ada)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/api/news_posts?slug=old-news", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/api/news_posts/old-news", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodDelete, "/api/news_posts", "").Code)
	svc.AssertExpectations(t)
}

func TestHandleGet(t *testing.T) {
	svc := new(mockService)
	svc.On("GetBySlug", mock.Anything, "hello").Return(&posts.PostDetails{Post: posts.Post{ID: 1, Slug: "hello"}}, nil)
	svc.On("GetBySlug", mock.Anything, "missing").Return(nil, posts.NewNotFoundError("post", "missing"))
	svc.On("GetByID", mock.Anything, int64(1)).Return(&posts.PostDetails{Post: posts.Post{ID: 1, Slug: "hello"}}, nil)
	router := newTestRouter(svc, nil)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/news_posts/hello", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/news_posts/id/1", "").Code)

	w := serve(router, http.MethodGet, "/api/news_posts/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeError(t, w)["message"], "missing")

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/news_posts/id/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/news_posts/author/0", "").Code)
}

func TestHandleListings(t *testing.T) {
	svc := new(mockService)
	svc.On("GetPublished", mock.Anything).Return(nil, nil)
	svc.On("GetByOrganization", mock.Anything, "dth").Return([]*posts.PostDetails{{Post: posts.Post{Slug: "a"}}}, nil)
	svc.On("GetByAuthor", mock.Anything, int64(2)).Return([]*posts.PostDetails{}, nil)
	svc.On("GetDraftsByAuthor", mock.Anything, ada, int64(2)).Return([]*posts.PostDetails{}, nil)
	svc.On("GetDrafts", mock.Anything, ada).Return(nil,
		&permissions.PermissionError{Action: posts.ActionDrafts, Resource: "news_post"})
	router := newTestRouter(svc, ada)

	w := serve(router, http.MethodGet, "/api/news_posts", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(router, http.MethodGet, "/api/news_posts/organization/dth", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"a"`)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/news_posts/author/2", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/news_posts/author/2/drafts", "").Code)

	w = serve(router, http.MethodGet, "/api/admin/news/drafts", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, decodeError(t, w)["message"], "news_post.drafts")

	svc.AssertExpectations(t)
}

func TestHandlePaginated(t *testing.T) {
	svc := new(mockService)
	want := posts.PaginationParams{
		Page:       1,
		PageSize:   5,
		OrderBy:    "modification_date",
		Ascending:  true,
		Filter:     "tar heel",
		RangeStart: "01/02/2024, 00:00:00",
		RangeEnd:   "",
		State:      posts.StatePublished,
	}
	svc.On("ListPaginated", mock.Anything, want, (*users.User)(nil)).Return(&posts.Paginated{
		Items:  []*posts.PostDetails{{Post: posts.Post{ID: 3, Slug: "c"}}},
		Length: 6,
		Params: want,
	}, nil)

	w := serve(newTestRouter(svc, nil), http.MethodGet,
		"/api/news_posts/paginate?page=1&page_size=5&order_by=modification_date&ascending=true&filter=tar+heel&range_start=01%2F02%2F2024%2C+00%3A00%3A00", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Items  []map[string]any       `json:"items"`
		Length int                    `json:"length"`
		Params map[string]interface{} `json:"params"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 6, got.Length)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, float64(1), got.Params["page"])
	assert.Equal(t, float64(5), got.Params["page_size"])
	svc.AssertExpectations(t)
}

func TestHandlePaginated_Defaults(t *testing.T) {
	svc := new(mockService)
	svc.On("ListPaginated", mock.Anything, posts.PaginationParams{PageSize: posts.DefaultPageSize, State: posts.StatePublished}, ada).
		Return(&posts.Paginated{Items: []*posts.PostDetails{}}, nil)
	svc.On("ListPaginated", mock.Anything, posts.PaginationParams{PageSize: posts.DefaultPageSize, OrderBy: "headline"}, ada).
		Return(&posts.Paginated{Items: []*posts.PostDetails{}}, nil)
	router := newTestRouter(svc, ada)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/news_posts/paginate", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/admin/news", "").Code)
	svc.AssertExpectations(t)
}

func TestHandlePaginated_BadInput(t *testing.T) {
	svc := new(mockService)
	svc.On("ListPaginated", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: unknown order_by \"nope\"", posts.ErrInvalidQuery))
	router := newTestRouter(svc, nil)

	for _, target := range []string{
		"/api/news_posts/paginate?page=one",
		"/api/news_posts/paginate?page_size=big",
		"/api/news_posts/paginate?ascending=maybe",
	} {
		assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, target, "").Code, target)
	}
	svc.AssertNotCalled(t, "ListPaginated", mock.Anything, mock.Anything, mock.Anything)

	w := serve(router, http.MethodGet, "/api/news_posts/paginate?order_by=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidQuery", decodeError(t, w)["error"])
}

func TestHandlePaginated_SignedInReaderSeesPublishedFeed(t *testing.T) {
	reader := &users.User{ID: 3, FirstName: "Grace", LastName: "Hopper"}
	svc := new(mockService)
	svc.On("ListPaginated", mock.Anything, mock.MatchedBy(func(p posts.PaginationParams) bool {
		return p.State == posts.StatePublished
	}), reader).Return(&posts.Paginated{Items: []*posts.PostDetails{}}, nil).Once()
	svc.On("ListPaginated", mock.Anything, mock.MatchedBy(func(p posts.PaginationParams) bool {
		return p.State == posts.StateDraft
	}), reader).Return(nil, &permissions.PermissionError{Action: posts.ActionDrafts, Resource: "news_post"}).Once()
	router := newTestRouter(svc, reader)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/news_posts/paginate", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/news_posts/paginate?state=draft", "").Code)
	svc.AssertExpectations(t)
}
