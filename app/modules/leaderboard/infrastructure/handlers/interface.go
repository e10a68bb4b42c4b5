package leaderboardhandlers

import "net/http"

// Handlers defines the leaderboard HTTP handlers.
type Handlers interface {
	HandleGetLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleChart(w http.ResponseWriter, r *http.Request)
	HandleExportXLSX(w http.ResponseWriter, r *http.Request)
}
