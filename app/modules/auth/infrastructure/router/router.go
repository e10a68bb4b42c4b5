package authrouter

import (
	"github.com/go-chi/chi/v5"
	authhandlers "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/handlers"
)

// Router mounts the auth HTTP routes.
type Router struct {
	handlers authhandlers.Handlers
}

// NewRouter creates a new auth router.
func NewRouter(handlers authhandlers.Handlers) *Router {
	return &Router{handlers: handlers}
}

// Register adds the auth routes to r.
func (rt *Router) Register(r chi.Router) {
	r.Get("/api/admin/me", rt.handlers.HandleAdminMe)
}
