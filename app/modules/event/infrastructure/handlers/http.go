package eventhandlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"github.com/mint-edu/mint-backend/app/shared/identity"
)

type createEventBody struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	SimURL          string `json:"simUrl"`
	SimType         string `json:"simType"`
	ScenarioID      string `json:"scenarioId"`
	DurationMinutes *int   `json:"durationMinutes"`
	State           string `json:"state"`
	StartsAt        string `json:"startsAt"`
	EndsAt          string `json:"endsAt"`
}

type eventResponse struct {
	Event *eventdb.Event `json:"event"`
}

type eventsResponse struct {
	Events []eventdb.Event `json:"events"`
}

func (h *EventHandlers) HandleListPublicEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListPublicEvents(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "ListPublicEvents", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, eventsResponse{Events: nonNil(events)})
}

func (h *EventHandlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "ListEvents", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, eventsResponse{Events: nonNil(events)})
}

func (h *EventHandlers) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var body createEventBody
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := eventservice.CreateEventRequest{
		Code:            body.Code,
		Name:            body.Name,
		SimURL:          body.SimURL,
		SimType:         body.SimType,
		ScenarioID:      body.ScenarioID,
		DurationMinutes: body.DurationMinutes,
		State:           body.State,
		StartsAt:        body.StartsAt,
		EndsAt:          body.EndsAt,
	}
	if id, ok := identity.FromContext(r.Context()); ok {
		req.CreatedBy = id.Email
	}

	event, err := h.service.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "CreateEvent", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, eventResponse{Event: event})
}

func (h *EventHandlers) HandleUpdateState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		State string `json:"state"`
	}
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.State) == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "state is required")
		return
	}

	event, err := h.service.UpdateState(r.Context(), chi.URLParam(r, "code"), body.State)
	if err != nil {
		h.writeServiceError(w, r, "UpdateState", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, eventResponse{Event: event})
}

// HandleSimAdminLink accepts the event code from a JSON body (POST) or the
// eventCode query parameter (GET).
func (h *EventHandlers) HandleSimAdminLink(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("eventCode")
	if r.Method == http.MethodPost {
		var body struct {
			EventCode string `json:"eventCode"`
		}
		if err := httpapi.DecodeJSON(r, &body); err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if body.EventCode != "" {
			code = body.EventCode
		}
	}

	var adminEmail string
	if id, ok := identity.FromContext(r.Context()); ok {
		adminEmail = id.Email
	}

	link, err := h.service.SimAdminLink(r.Context(), code, adminEmail)
	if err != nil {
		h.writeServiceError(w, r, "SimAdminLink", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"adminUrl": link})
}

type jobsResponse struct {
	Jobs []eventservice.AutoEndJob `json:"jobs"`
}

// HandleListAutoEndJobs reports the queued auto-end jobs of one event.
func (h *EventHandlers) HandleListAutoEndJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListAutoEndJobs(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeServiceError(w, r, "ListAutoEndJobs", err)
		return
	}
	if jobs == nil {
		jobs = []eventservice.AutoEndJob{}
	}
	httpapi.WriteJSON(w, http.StatusOK, jobsResponse{Jobs: jobs})
}

func nonNil(events []eventdb.Event) []eventdb.Event {
	if events == nil {
		return []eventdb.Event{}
	}
	return events
}
