package eventhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	"github.com/mint-edu/mint-backend/app/shared/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *FakeService) *EventHandlers {
	return NewEventHandlers(
		svc,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		noop.NewTracerProvider().Tracer("test"),
	).(*EventHandlers)
}

func withCode(r *http.Request, code string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("code", code)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body["error"]
}

func TestEventHandlers_HandleCreateEvent(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupService func(*FakeService)
		wantStatus   int
		wantError    string
	}{
		{
			name: "created",
			body: `{"code":"abc1","name":"Demo","durationMinutes":30,"startsAt":"tomorrow at 6pm"}`,
			setupService: func(s *FakeService) {
				s.CreateEventFunc = func(ctx context.Context, req eventservice.CreateEventRequest) (*eventdb.Event, error) {
					if req.Code != "abc1" || req.Name != "Demo" || *req.DurationMinutes != 30 || req.StartsAt != "tomorrow at 6pm" {
						return nil, fmt.Errorf("unexpected request %+v", req)
					}
					if req.CreatedBy != "admin@mint.example" {
						return nil, fmt.Errorf("unexpected creator %q", req.CreatedBy)
					}
					return &eventdb.Event{ID: uuid.New(), Code: "ABC1", Name: "Demo", State: eventdomain.StateDraft}, nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{"code":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: `{"code":"abc1"}`,
			setupService: func(s *FakeService) {
				s.CreateEventFunc = func(ctx context.Context, req eventservice.CreateEventRequest) (*eventdb.Event, error) {
					return nil, eventservice.ErrMissingFields
				}
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "code and name are required",
		},
		{
			name: "duplicate code",
			body: `{"code":"abc1","name":"Demo"}`,
			setupService: func(s *FakeService) {
				s.CreateEventFunc = func(ctx context.Context, req eventservice.CreateEventRequest) (*eventdb.Event, error) {
					return nil, eventservice.ErrDuplicateCode
				}
			},
			wantStatus: http.StatusConflict,
			wantError:  "event code already exists",
		},
		{
			name: "store failure is not disclosed",
			body: `{"code":"abc1","name":"Demo"}`,
			setupService: func(s *FakeService) {
				s.CreateEventFunc = func(ctx context.Context, req eventservice.CreateEventRequest) (*eventdb.Event, error) {
					return nil, errors.New("pq: relation \"events\" does not exist")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setupService != nil {
				tt.setupService(svc)
			}
			h := newTestHandlers(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(tt.body))
			req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{Email: "admin@mint.example", Admin: true}))
			rr := httptest.NewRecorder()

			h.HandleCreateEvent(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rr))
			}
			if tt.wantStatus == http.StatusCreated {
				var body struct {
					Event eventdb.Event `json:"event"`
				}
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, "ABC1", body.Event.Code)
			}
		})
	}
}

func TestEventHandlers_HandleUpdateState(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "ok", body: `{"state":"live"}`, wantStatus: http.StatusOK},
		{name: "missing state", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "state is required"},
		{name: "unknown event", body: `{"state":"live"}`, err: eventservice.ErrEventNotFound, wantStatus: http.StatusNotFound, wantError: "Event not found"},
		{
			name:       "illegal transition",
			body:       `{"state":"draft"}`,
			err:        fmt.Errorf("%w from ended to draft", eventservice.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
			wantError:  "invalid state transition from ended to draft",
		},
		{name: "unknown state", body: `{"state":"archived"}`, err: eventservice.ErrInvalidState, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCode string
			svc := &FakeService{
				UpdateStateFunc: func(ctx context.Context, code, state string) (*eventdb.Event, error) {
					gotCode = code
					if tt.err != nil {
						return nil, tt.err
					}
					return &eventdb.Event{Code: code, State: eventdomain.State(state)}, nil
				},
			}
			h := newTestHandlers(svc)

			req := withCode(httptest.NewRequest(http.MethodPost, "/api/admin/events/ABC1/state", strings.NewReader(tt.body)), "ABC1")
			rr := httptest.NewRecorder()
			h.HandleUpdateState(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rr))
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "ABC1", gotCode)
			}
		})
	}
}

func TestEventHandlers_HandleListPublicEvents(t *testing.T) {
	t.Run("empty list encodes as array", func(t *testing.T) {
		h := newTestHandlers(&FakeService{})
		rr := httptest.NewRecorder()
		h.HandleListPublicEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events/public", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"events":[]}`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		h := newTestHandlers(&FakeService{
			ListPublicEventsFunc: func(ctx context.Context) ([]eventdb.Event, error) {
				return nil, errors.New("boom")
			},
		})
		rr := httptest.NewRecorder()
		h.HandleListPublicEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events/public", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestEventHandlers_HandleListEvents(t *testing.T) {
	svc := &FakeService{
		ListEventsFunc: func(ctx context.Context) ([]eventdb.Event, error) {
			return []eventdb.Event{{Code: "B"}, {Code: "A"}}, nil
		},
	}
	h := newTestHandlers(svc)
	rr := httptest.NewRecorder()
	h.HandleListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/admin/events", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Events []eventdb.Event `json:"events"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, "B", body.Events[0].Code)
	assert.Equal(t, []string{"ListEvents"}, svc.Trace())
}

func TestEventHandlers_HandleSimAdminLink(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "post body", method: http.MethodPost, target: "/api/admin/sim-admin-link", body: `{"eventCode":"abc1"}`, wantCode: "abc1", wantStatus: http.StatusOK},
		{name: "get query", method: http.MethodGet, target: "/api/admin/sim-admin-link?eventCode=abc1", wantCode: "abc1", wantStatus: http.StatusOK},
		{name: "missing code", method: http.MethodGet, target: "/api/admin/sim-admin-link", err: eventservice.ErrMissingEventCode, wantStatus: http.StatusBadRequest},
		{name: "not configured", method: http.MethodGet, target: "/api/admin/sim-admin-link?eventCode=abc1", wantCode: "abc1", err: eventservice.ErrSimLinkNotConfigured, wantStatus: http.StatusServiceUnavailable},
		{name: "no sim url", method: http.MethodGet, target: "/api/admin/sim-admin-link?eventCode=abc1", wantCode: "abc1", err: eventservice.ErrSimURLNotConfigured, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCode, gotEmail string
			svc := &FakeService{
				SimAdminLinkFunc: func(ctx context.Context, code, adminEmail string) (string, error) {
					gotCode, gotEmail = code, adminEmail
					if tt.err != nil {
						return "", tt.err
					}
					return "https://sim.example/admin?token=t", nil
				},
			}
			h := newTestHandlers(svc)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{Email: "admin@mint.example"}))
			rr := httptest.NewRecorder()
			h.HandleSimAdminLink(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, gotCode)
				assert.Equal(t, "admin@mint.example", gotEmail)
			}
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"adminUrl":"https://sim.example/admin?token=t"}`, rr.Body.String())
			}
		})
	}
}

func TestEventHandlers_HandleListAutoEndJobs(t *testing.T) {
	tests := []struct {
		name       string
		jobs       []eventservice.AutoEndJob
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "lists jobs",
			jobs:       []eventservice.AutoEndJob{{ID: 7, Kind: "event_auto_end", EventID: "e1", State: "scheduled", ScheduledAt: "2026-03-10T09:45:00Z"}},
			wantStatus: http.StatusOK,
			wantBody:   `{"jobs":[{"id":7,"kind":"event_auto_end","eventId":"e1","state":"scheduled","scheduledAt":"2026-03-10T09:45:00Z","attempt":0}]}`,
		},
		{name: "no queue encodes as array", wantStatus: http.StatusOK, wantBody: `{"jobs":[]}`},
		{name: "unknown event", err: eventservice.ErrEventNotFound, wantStatus: http.StatusNotFound, wantBody: `{"error":"Event not found"}`},
		{name: "query failure", err: errors.New("river_job missing"), wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCode string
			svc := &FakeService{
				ListAutoEndJobsFunc: func(ctx context.Context, code string) ([]eventservice.AutoEndJob, error) {
					gotCode = code
					return tt.jobs, tt.err
				},
			}
			h := newTestHandlers(svc)

			req := withCode(httptest.NewRequest(http.MethodGet, "/api/admin/events/ABC1/jobs", nil), "ABC1")
			rr := httptest.NewRecorder()
			h.HandleListAutoEndJobs(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.Equal(t, "ABC1", gotCode)
		})
	}
}
