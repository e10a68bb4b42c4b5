package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// runRateLimit throttles run creation and submission per client IP.
func runRateLimit() func(http.Handler) http.Handler {
	return httpapi.RateLimitMiddleware(httpapi.NewIPRateLimiter(5, 10))
}

// RouteRegistrar is implemented by every module.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func (app *App) newRouter() chi.Router {
	logger := app.Observability.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpapi.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(httpapi.NewHTTPMetrics(app.Observability.Registry).Middleware)
	r.Use(httpapi.CORSMiddleware(app.Config.HTTP.AllowedOrigins))
	r.Use(app.AuthModule.ResolveIdentity)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}))

	for _, m := range []RouteRegistrar{app.AuthModule, app.EventModule, app.RunModule, app.LeaderboardModule} {
		m.RegisterRoutes(r)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
