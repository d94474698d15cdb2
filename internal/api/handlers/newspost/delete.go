package newspost

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Newsroom/internal/api/middleware"
	"Newsroom/internal/core/posts"
)

// DeleteHandler handles news post deletion
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new handler for deleting posts
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete handles DELETE /api/news_posts?slug= and DELETE /api/news_posts/{slug}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slug = r.URL.Query().Get("slug")
	}
	if slug == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "slug is required")
		return
	}

	if err := h.service.DeletePost(r.Context(), middleware.GetSubject(r.Context()), slug); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
