package eventrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	eventhandlers "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/handlers"
)

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

// Router mounts the event HTTP routes.
type Router struct {
	handlers     eventhandlers.Handlers
	requireAdmin Middleware
}

// NewRouter creates a new event router. requireAdmin guards the admin routes.
func NewRouter(handlers eventhandlers.Handlers, requireAdmin Middleware) *Router {
	return &Router{
		handlers:     handlers,
		requireAdmin: requireAdmin,
	}
}

// Register adds the event routes to r.
func (rt *Router) Register(r chi.Router) {
	r.Get("/api/events/public", rt.handlers.HandleListPublicEvents)

	r.Group(func(r chi.Router) {
		r.Use(rt.requireAdmin)

		r.Get("/api/admin/events", rt.handlers.HandleListEvents)
		r.Post("/api/admin/events", rt.handlers.HandleCreateEvent)
		r.Post("/api/events/create", rt.handlers.HandleCreateEvent)
		r.Post("/api/admin/events/{code}/state", rt.handlers.HandleUpdateState)
		r.Get("/api/admin/events/{code}/jobs", rt.handlers.HandleListAutoEndJobs)
		r.Get("/api/admin/sim-admin-link", rt.handlers.HandleSimAdminLink)
		r.Post("/api/admin/sim-admin-link", rt.handlers.HandleSimAdminLink)
	})
}
