package runhandlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	runservice "github.com/mint-edu/mint-backend/app/modules/run/application"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"github.com/mint-edu/mint-backend/app/shared/identity"
)

type createRunBody struct {
	EventCode string `json:"eventCode"`
	UserID    string `json:"userId"`
}

type submitResultsBody struct {
	RunID       string          `json:"runId"`
	Score       json.RawMessage `json:"score"`
	PnL         *float64        `json:"pnl"`
	Sharpe      *float64        `json:"sharpe"`
	MaxDrawdown *float64        `json:"max_drawdown"`
	WinRate     *float64        `json:"win_rate"`
	Extra       json.RawMessage `json:"extra"`
}

func (h *RunHandlers) HandleCreateRun(w http.ResponseWriter, r *http.Request) {
	var body createRunBody
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := runservice.CreateRunRequest{
		EventCode: body.EventCode,
		UserID:    resolveUserID(r, body.UserID),
	}
	if id, ok := identity.FromContext(r.Context()); ok && id.UserID != "" && id.UserID == req.UserID {
		req.Profile = &runservice.PlayerProfile{DisplayName: id.DisplayName, Email: id.Email}
	}

	resp, err := h.service.CreateRun(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "CreateRun", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (h *RunHandlers) HandleSubmitResults(w http.ResponseWriter, r *http.Request) {
	var body submitResultsBody
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.SubmitResults(r.Context(), runservice.SubmitResultsRequest{
		RunID:       body.RunID,
		Score:       parseScore(body.Score),
		PnL:         body.PnL,
		Sharpe:      body.Sharpe,
		MaxDrawdown: body.MaxDrawdown,
		WinRate:     body.WinRate,
		Extra:       body.Extra,
	})
	if err != nil {
		h.writeServiceError(w, r, "SubmitResults", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parseScore accepts only a JSON number literal. Strings, booleans and null
// yield nil.
func parseScore(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func (h *RunHandlers) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetRun(r.Context(), chi.URLParam(r, "runId"))
	if err != nil {
		h.writeServiceError(w, r, "GetRun", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]*rundb.Run{"run": run})
}

func (h *RunHandlers) HandleListMyRuns(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r, "")
	if userID == "" {
		httpapi.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	runs, err := h.service.ListUserRuns(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, "ListUserRuns", err)
		return
	}
	if runs == nil {
		runs = []rundb.Run{}
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string][]rundb.Run{"runs": runs})
}
