package newspost

import (
	"net/http"

	"Newsroom/internal/api/middleware"
	"Newsroom/internal/core/posts"
)

// AdminHandler serves the privileged state listings
type AdminHandler struct {
	service posts.Service
}

// NewAdminHandler creates a new admin listing handler
func NewAdminHandler(service posts.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// HandleAll handles GET /api/admin/news/all
func (h *AdminHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	writeList(w)(h.service.GetAll(r.Context(), middleware.GetSubject(r.Context())))
}

// HandleIncoming handles GET /api/admin/news/incoming
func (h *AdminHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	writeList(w)(h.service.GetIncoming(r.Context(), middleware.GetSubject(r.Context())))
}

// HandleDrafts handles GET /api/admin/news/drafts
func (h *AdminHandler) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	writeList(w)(h.service.GetDrafts(r.Context(), middleware.GetSubject(r.Context())))
}

// HandleArchived handles GET /api/admin/news/archived
func (h *AdminHandler) HandleArchived(w http.ResponseWriter, r *http.Request) {
	writeList(w)(h.service.GetArchived(r.Context(), middleware.GetSubject(r.Context())))
}
