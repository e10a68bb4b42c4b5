package runrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	runhandlers "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/handlers"
)

// Router mounts the run HTTP routes.
type Router struct {
	handlers  runhandlers.Handlers
	rateLimit func(http.Handler) http.Handler
}

// NewRouter creates a new run router. rateLimit guards the write routes and
// may be nil.
func NewRouter(handlers runhandlers.Handlers, rateLimit func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, rateLimit: rateLimit}
}

// Register adds the run routes to r.
func (rt *Router) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if rt.rateLimit != nil {
			r.Use(rt.rateLimit)
		}
		r.Post("/api/runs/create", rt.handlers.HandleCreateRun)
		r.Post("/api/runs/submit", rt.handlers.HandleSubmitResults)
	})

	r.Get("/api/runs/{runId}", rt.handlers.HandleGetRun)
	r.Get("/api/me/runs", rt.handlers.HandleListMyRuns)
}
