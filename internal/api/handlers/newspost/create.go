package newspost

import (
	"encoding/json"
	"errors"
	"net/http"

	"Newsroom/internal/api/handlers"
	"Newsroom/internal/api/middleware"
	"Newsroom/internal/core/posts"
)

// CreateHandler handles news post creation
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /api/news_posts
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	post, ok := decodePost(w, r)
	if !ok {
		return
	}

	details, err := h.service.CreatePost(r.Context(), middleware.GetSubject(r.Context()), post)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, details)
}

// UpdateHandler handles news post updates
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PUT /api/news_posts. The body carries the post's id.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	post, ok := decodePost(w, r)
	if !ok {
		return
	}

	details, err := h.service.UpdatePost(r.Context(), middleware.GetSubject(r.Context()), post)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, details)
}

func decodePost(w http.ResponseWriter, r *http.Request) (*posts.Post, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var post posts.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large (max 1MB)")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return nil, false
	}
	return &post, true
}
