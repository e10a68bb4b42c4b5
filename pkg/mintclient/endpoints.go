package mintclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &out)
}

// CreateRun needs either a configured identity or an explicit UserID.
func (c *Client) CreateRun(ctx context.Context, req CreateRunRequest) (*CreateRunResponse, error) {
	if req.UserID == "" && !c.signedIn() {
		return nil, ErrSignInRequired
	}
	var out CreateRunResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/runs/create", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitResults(ctx context.Context, req SubmitResultsRequest) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.doJSON(ctx, http.MethodPost, "/api/runs/submit", nil, req, &out)
}

func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	var out struct {
		Run *Run `json:"run"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(runID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Run, nil
}

func (c *Client) MyRuns(ctx context.Context) ([]Run, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	var out struct {
		Runs []Run `json:"runs"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/me/runs", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

func (c *Client) PublicEvents(ctx context.Context) ([]Event, error) {
	return c.events(ctx, "/api/events/public")
}

// Leaderboard fetches the ranked board. A limit of zero uses the server default.
func (c *Client) Leaderboard(ctx context.Context, code string, limit int) (*Leaderboard, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out Leaderboard
	if err := c.doJSON(ctx, http.MethodGet, "/api/events/"+url.PathEscape(code)+"/leaderboard", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaderboardChart returns the PNG rendering of the board.
func (c *Client) LeaderboardChart(ctx context.Context, code string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(code)+"/leaderboard/chart.png", nil, nil)
}

func (c *Client) AdminMe(ctx context.Context) (*AdminStatus, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	var out AdminStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	return c.events(ctx, "/api/admin/events")
}

func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	return c.event(ctx, http.MethodPost, "/api/admin/events", req)
}

func (c *Client) UpdateEventState(ctx context.Context, code, state string) (*Event, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	body := map[string]string{"state": state}
	return c.event(ctx, http.MethodPost, "/api/admin/events/"+url.PathEscape(code)+"/state", body)
}

// SimAdminLink returns the signed simulation admin URL for an event.
func (c *Client) SimAdminLink(ctx context.Context, eventCode string) (string, error) {
	if !c.signedIn() {
		return "", ErrSignInRequired
	}
	var out struct {
		AdminURL string `json:"adminUrl"`
	}
	body := map[string]string{"eventCode": eventCode}
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/sim-admin-link", nil, body, &out); err != nil {
		return "", err
	}
	return out.AdminURL, nil
}

// AutoEndJobs lists the auto-end jobs queued for an event.
func (c *Client) AutoEndJobs(ctx context.Context, code string) ([]AutoEndJob, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	var out struct {
		Jobs []AutoEndJob `json:"jobs"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/events/"+url.PathEscape(code)+"/jobs", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// ExportLeaderboard downloads the XLSX workbook for an event.
func (c *Client) ExportLeaderboard(ctx context.Context, code string) ([]byte, error) {
	if !c.signedIn() {
		return nil, ErrSignInRequired
	}
	return c.do(ctx, http.MethodGet, "/api/admin/events/"+url.PathEscape(code)+"/leaderboard.xlsx", nil, nil)
}

func (c *Client) events(ctx context.Context, path string) ([]Event, error) {
	var out struct {
		Events []Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) event(ctx context.Context, method, path string, body any) (*Event, error) {
	var out struct {
		Event *Event `json:"event"`
	}
	if err := c.doJSON(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Event, nil
}
