package newspost

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"Newsroom/internal/api/handlers"
	"Newsroom/internal/core/permissions"
	"Newsroom/internal/core/posts"
)

// maxBodyBytes bounds create and update request bodies
const maxBodyBytes = 1 << 20

func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	handlers.WriteError(w, statusCode, errorType, message)
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var permErr *permissions.PermissionError
	var notFound *posts.NotFoundError

	switch {
	case errors.Is(err, posts.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")

	case errors.As(err, &permErr):
		writeError(w, http.StatusForbidden, "PermissionDenied", permErr.Error())

	case permissions.IsPermissionDenied(err):
		writeError(w, http.StatusForbidden, "PermissionDenied", "Permission denied")

	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "NotFound", notFound.Error())

	case posts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", "News post not found")

	case errors.Is(err, posts.ErrSlugTaken):
		writeError(w, http.StatusConflict, "SlugTaken", "Slug is already in use by another post")

	case posts.IsInvalidQuery(err):
		writeError(w, http.StatusBadRequest, "InvalidQuery", err.Error())

	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, posts.ErrWriteFailed):
		log.Error().Err(err).Msg("news post write failed")
		writeError(w, http.StatusInternalServerError, "WriteFailed", "Could not save the news post")

	default:
		// Don't leak internal error details to clients
		log.Error().Err(err).Msg("unexpected error in news post handler")
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
