package newspost

import (
	"net/http"
	"net/url"
	"strconv"

	"Newsroom/internal/api/handlers"
	"Newsroom/internal/api/middleware"
	"Newsroom/internal/core/posts"
)

// ListHandler serves the paginated listings
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new paginated list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandlePaginated handles GET /api/news_posts/paginate. It lists published posts
// unless the caller asks for another state, so a token never narrows the public feed.
func (h *ListHandler) HandlePaginated(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "", posts.StatePublished)
}

// HandleAdminPaginated handles GET /api/admin/news, which covers every state and
// orders by headline unless told otherwise
func (h *ListHandler) HandleAdminPaginated(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, string(posts.SortHeadline), "")
}

func (h *ListHandler) serve(w http.ResponseWriter, r *http.Request, defaultOrder string, defaultState posts.State) {
	params, err := parsePaginationParams(r.URL.Query(), defaultOrder)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	if params.State == "" {
		params.State = defaultState
	}

	page, err := h.service.ListPaginated(r.Context(), params, middleware.GetSubject(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, page)
}

// parsePaginationParams reads page, page_size, order_by, ascending, filter,
// range_start, range_end and state from the query string
func parsePaginationParams(query url.Values, defaultOrder string) (posts.PaginationParams, error) {
	params := posts.PaginationParams{
		PageSize:   posts.DefaultPageSize,
		OrderBy:    query.Get("order_by"),
		Filter:     query.Get("filter"),
		RangeStart: query.Get("range_start"),
		RangeEnd:   query.Get("range_end"),
		State:      posts.State(query.Get("state")),
	}
	if params.OrderBy == "" {
		params.OrderBy = defaultOrder
	}

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return params, posts.NewValidationError("page", "page must be an integer")
		}
		params.Page = page
	}
	if v := query.Get("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return params, posts.NewValidationError("page_size", "page_size must be an integer")
		}
		params.PageSize = size
	}
	if v := query.Get("ascending"); v != "" {
		asc, err := strconv.ParseBool(v)
		if err != nil {
			return params, posts.NewValidationError("ascending", "ascending must be true or false")
		}
		params.Ascending = asc
	}

	return params, nil
}
