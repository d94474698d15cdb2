package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Newsroom/internal/api/handlers/newspost"
	"Newsroom/internal/core/posts"
)

// Authenticator is the auth middleware the routes need
type Authenticator interface {
	RequireAuth(next http.Handler) http.Handler
	OptionalAuth(next http.Handler) http.Handler
}

// RegisterNewsPostRoutes registers the news post endpoints on the router
func RegisterNewsPostRoutes(r chi.Router, service posts.Service, auth Authenticator) {
	createHandler := newspost.NewCreateHandler(service)
	updateHandler := newspost.NewUpdateHandler(service)
	deleteHandler := newspost.NewDeleteHandler(service)
	getHandler := newspost.NewGetHandler(service)
	listHandler := newspost.NewListHandler(service)
	adminHandler := newspost.NewAdminHandler(service)

	r.Route("/api/news_posts", func(r chi.Router) {
		// Reads are public; a token only widens what the paginated listing may show
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth)
			r.Get("/", getHandler.HandleListPublished)
			r.Get("/paginate", listHandler.HandlePaginated)
			r.Get("/id/{id}", getHandler.HandleGetByID)
			r.Get("/organization/{slug}", getHandler.HandleByOrganization)
			r.Get("/author/{id}", getHandler.HandleByAuthor)
			r.Get("/{slug}", getHandler.HandleGetBySlug)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/", createHandler.HandleCreate)
			r.Put("/", updateHandler.HandleUpdate)
			r.Delete("/", deleteHandler.HandleDelete)
			r.Delete("/{slug}", deleteHandler.HandleDelete)
			r.Get("/author/{id}/drafts", getHandler.HandleDraftsByAuthor)
		})
	})

	r.Route("/api/admin/news", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/", listHandler.HandleAdminPaginated)
		r.Get("/all", adminHandler.HandleAll)
		r.Get("/incoming", adminHandler.HandleIncoming)
		r.Get("/drafts", adminHandler.HandleDrafts)
		r.Get("/archived", adminHandler.HandleArchived)
	})
}
