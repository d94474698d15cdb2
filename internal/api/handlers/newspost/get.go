package newspost

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Newsroom/internal/api/handlers"
	"Newsroom/internal/api/middleware"
	"Newsroom/internal/core/posts"
)

// GetHandler serves single posts and the public listings
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGetBySlug handles GET /api/news_posts/{slug}
func (h *GetHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, details)
}

// HandleGetByID handles GET /api/news_posts/id/{id}
func (h *GetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	details, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, details)
}

// HandleListPublished handles GET /api/news_posts
func (h *GetHandler) HandleListPublished(w http.ResponseWriter, r *http.Request) {
	writeList(w)(h.service.GetPublished(r.Context()))
}

// HandleByOrganization handles GET /api/news_posts/organization/{slug}
func (h *GetHandler) HandleByOrganization(w http.ResponseWriter, r *http.Request) {
	writeList(w)(h.service.GetByOrganization(r.Context(), chi.URLParam(r, "slug")))
}

// HandleByAuthor handles GET /api/news_posts/author/{id}
func (h *GetHandler) HandleByAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeList(w)(h.service.GetByAuthor(r.Context(), id))
}

// HandleDraftsByAuthor handles GET /api/news_posts/author/{id}/drafts
func (h *GetHandler) HandleDraftsByAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeList(w)(h.service.GetDraftsByAuthor(r.Context(), middleware.GetSubject(r.Context()), id))
}

// writeList returns a function that writes a listing result, so handlers can pass a
// service call's two return values straight through
func writeList(w http.ResponseWriter) func([]*posts.PostDetails, error) {
	return func(items []*posts.PostDetails, err error) {
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if items == nil {
			items = []*posts.PostDetails{}
		}
		handlers.WriteJSON(w, http.StatusOK, items)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "InvalidRequest", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
