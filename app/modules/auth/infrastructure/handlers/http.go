package authhandlers

import (
	"log/slog"
	"net/http"

	"github.com/mint-edu/mint-backend/app/shared/httpapi"
)

func (h *AuthHandlers) HandleAdminMe(w http.ResponseWriter, r *http.Request) {
	user := callerFromContext(r)
	if user == nil {
		httpapi.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.service.AdminStatus(r.Context(), user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Admin status lookup failed", slog.Any("error", err))
		httpapi.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, status)
}
