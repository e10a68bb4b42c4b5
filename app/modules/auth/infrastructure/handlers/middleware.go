package authhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	authservice "github.com/mint-edu/mint-backend/app/modules/auth/application"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"github.com/mint-edu/mint-backend/app/shared/identity"
)

func (h *AuthHandlers) ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), toIdentity(user, false))))
	})
}

func (h *AuthHandlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := callerFromContext(r)
		err := h.service.Authorize(r.Context(), user)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), toIdentity(user, true))))
		case errors.Is(err, authservice.ErrUnauthorized):
			httpapi.WriteError(w, http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, authservice.ErrForbidden):
			httpapi.WriteError(w, http.StatusForbidden, "forbidden")
		default:
			h.logger.ErrorContext(r.Context(), "Admin check failed", slog.Any("error", err))
			httpapi.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
	})
}
