package runhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	runservice "github.com/mint-edu/mint-backend/app/modules/run/application"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
	"github.com/mint-edu/mint-backend/app/shared/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *FakeService) Handlers {
	return NewRunHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
}

func TestRunHandlers_HandleCreateRun(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		header      string
		caller      *identity.Identity
		err         error
		wantStatus  int
		wantUserID  string
		wantProfile bool
		wantError   string
	}{
		{name: "body user id", body: `{"eventCode":"abc1","userId":"u1"}`, wantStatus: http.StatusOK, wantUserID: "u1"},
		{name: "header fallback", body: `{"eventCode":"abc1"}`, header: "u2", wantStatus: http.StatusOK, wantUserID: "u2"},
		{
			name:        "bearer subject fallback stores profile",
			body:        `{"eventCode":"abc1"}`,
			caller:      &identity.Identity{UserID: "sub-1", Email: "ada@example.com", DisplayName: "Ada"},
			wantStatus:  http.StatusOK,
			wantUserID:  "sub-1",
			wantProfile: true,
		},
		{
			name:       "body user id differing from bearer skips profile",
			body:       `{"eventCode":"abc1","userId":"someone-else"}`,
			caller:     &identity.Identity{UserID: "sub-1", Email: "ada@example.com"},
			wantStatus: http.StatusOK,
			wantUserID: "someone-else",
		},
		{name: "unknown event", body: `{"eventCode":"nope","userId":"u1"}`, err: runservice.ErrEventNotFound, wantStatus: http.StatusNotFound, wantUserID: "u1", wantError: "Event not found for provided code"},
		{name: "missing event code", body: `{"userId":"u1"}`, err: runservice.ErrMissingEventCode, wantStatus: http.StatusBadRequest, wantUserID: "u1", wantError: "eventCode is required"},
		{name: "no sim url configured", body: `{"eventCode":"ABC1","userId":"u1"}`, err: runservice.ErrSimURLNotConfigured, wantStatus: http.StatusServiceUnavailable, wantUserID: "u1", wantError: "no simulation URL is configured for this event"},
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got runservice.CreateRunRequest
			svc := &FakeService{
				CreateRunFunc: func(ctx context.Context, req runservice.CreateRunRequest) (*runservice.CreateRunResponse, error) {
					got = req
					if tt.err != nil {
						return nil, tt.err
					}
					return &runservice.CreateRunResponse{RunID: "r1", SimURL: "https://sim.example/play?run_id=r1"}, nil
				},
			}
			h := newTestHandlers(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/runs/create", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set("x-user-id", tt.header)
			}
			if tt.caller != nil {
				req = req.WithContext(identity.WithIdentity(req.Context(), *tt.caller))
			}
			rr := httptest.NewRecorder()
			h.HandleCreateRun(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantUserID != "" {
				assert.Equal(t, tt.wantUserID, got.UserID)
				assert.Equal(t, tt.wantProfile, got.Profile != nil)
			}
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body["error"])
			}
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"runId":"r1","simUrl":"https://sim.example/play?run_id=r1"}`, rr.Body.String())
			}
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{raw: `87.5`, want: ptr(87.5)},
		{raw: ` -3 `, want: ptr(-3)},
		{raw: `0`, want: ptr(0)},
		{raw: `"87.5"`},
		{raw: `null`},
		{raw: `true`},
		{raw: ``},
		{raw: `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseScore(json.RawMessage(tt.raw)))
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestRunHandlers_HandleSubmitResults(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
		check      func(t *testing.T, req runservice.SubmitResultsRequest)
	}{
		{
			name:       "ok",
			body:       `{"runId":"r1","score":87.5,"pnl":12.5,"win_rate":0.6,"extra":{"trades":3}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
			check: func(t *testing.T, req runservice.SubmitResultsRequest) {
				require.NotNil(t, req.Score)
				assert.Equal(t, 87.5, *req.Score)
				assert.Equal(t, 12.5, *req.PnL)
				assert.Nil(t, req.Sharpe)
				assert.JSONEq(t, `{"trades":3}`, string(req.Extra))
			},
		},
		{
			name:       "string score",
			body:       `{"runId":"r1","score":"87.5"}`,
			err:        runservice.ErrInvalidScore,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"score must be provided as a number"}`,
			check: func(t *testing.T, req runservice.SubmitResultsRequest) {
				assert.Nil(t, req.Score)
			},
		},
		{name: "duplicate", body: `{"runId":"r1","score":1}`, err: runservice.ErrAlreadySubmitted, wantStatus: http.StatusConflict, wantBody: `{"error":"Results already submitted for this run"}`},
		{name: "unknown run", body: `{"runId":"r1","score":1}`, err: runservice.ErrRunNotFound, wantStatus: http.StatusNotFound, wantBody: `{"error":"Run not found"}`},
		{name: "store failure", body: `{"runId":"r1","score":1}`, err: errors.New("deadlock"), wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got runservice.SubmitResultsRequest
			svc := &FakeService{
				SubmitResultsFunc: func(ctx context.Context, req runservice.SubmitResultsRequest) error {
					got = req
					return tt.err
				},
			}
			h := newTestHandlers(svc)

			rr := httptest.NewRecorder()
			h.HandleSubmitResults(rr, httptest.NewRequest(http.MethodPost, "/api/runs/submit", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestRunHandlers_HandleGetRun(t *testing.T) {
	runID := uuid.New()
	svc := &FakeService{
		GetRunFunc: func(ctx context.Context, id string) (*rundb.Run, error) {
			if id != runID.String() {
				return nil, runservice.ErrRunNotFound
			}
			return &rundb.Run{ID: runID, UserID: "u1"}, nil
		},
	}
	r := chi.NewRouter()
	r.Get("/api/runs/{runId}", newTestHandlers(svc).HandleGetRun)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/runs/"+runID.String(), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Run rundb.Run `json:"run"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, runID, body.Run.ID)
	assert.Nil(t, body.Run.Result)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/runs/garbage", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRunHandlers_HandleListMyRuns(t *testing.T) {
	svc := &FakeService{
		ListUserRunsFunc: func(ctx context.Context, userID string) ([]rundb.Run, error) {
			return []rundb.Run{{UserID: userID}}, nil
		},
	}
	h := newTestHandlers(svc)

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleListMyRuns(rr, httptest.NewRequest(http.MethodGet, "/api/me/runs", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me/runs", nil)
		req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{UserID: "sub-1"}))
		rr := httptest.NewRecorder()
		h.HandleListMyRuns(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Runs []rundb.Run `json:"runs"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.Len(t, body.Runs, 1)
		assert.Equal(t, "sub-1", body.Runs[0].UserID)
	})
}
