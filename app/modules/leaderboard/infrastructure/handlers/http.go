package leaderboardhandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	leaderboarddomain "github.com/mint-edu/mint-backend/app/modules/leaderboard/domain"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
)

func (h *LeaderboardHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	limit := leaderboarddomain.ParseLimit(r.URL.Query().Get("limit"))

	board, err := h.service.GetLeaderboard(r.Context(), code, limit)
	if err != nil {
		h.writeServiceError(w, r, "GetLeaderboard", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, board)
}

func (h *LeaderboardHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	limit := leaderboarddomain.ParseLimit(r.URL.Query().Get("limit"))

	png, err := h.service.RenderChart(r.Context(), code, limit)
	if err != nil {
		h.writeServiceError(w, r, "RenderChart", err)
		return
	}
	h.writeBinary(w, r, "image/png", png)
}

func (h *LeaderboardHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	data, err := h.service.ExportXLSX(r.Context(), code)
	if err != nil {
		h.writeServiceError(w, r, "ExportXLSX", err)
		return
	}
	filename := fmt.Sprintf("leaderboard-%s.xlsx", eventdomain.NormalizeCode(code))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.writeBinary(w, r, xlsxContentType, data)
}

func (h *LeaderboardHandlers) writeBinary(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write response body", slog.Any("error", err))
	}
}
