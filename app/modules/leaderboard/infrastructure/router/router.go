package leaderboardrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	leaderboardhandlers "github.com/mint-edu/mint-backend/app/modules/leaderboard/infrastructure/handlers"
)

// Router mounts the leaderboard HTTP routes.
type Router struct {
	handlers     leaderboardhandlers.Handlers
	requireAdmin func(http.Handler) http.Handler
}

// NewRouter creates a new leaderboard router. requireAdmin guards the export.
func NewRouter(handlers leaderboardhandlers.Handlers, requireAdmin func(http.Handler) http.Handler) *Router {
	return &Router{handlers: handlers, requireAdmin: requireAdmin}
}

// Register adds the leaderboard routes to r.
func (rt *Router) Register(r chi.Router) {
	r.Get("/api/events/{code}/leaderboard", rt.handlers.HandleGetLeaderboard)
	r.Get("/api/events/{code}/leaderboard/chart.png", rt.handlers.HandleChart)

	r.With(rt.requireAdmin).Get("/api/admin/events/{code}/leaderboard.xlsx", rt.handlers.HandleExportXLSX)
}
