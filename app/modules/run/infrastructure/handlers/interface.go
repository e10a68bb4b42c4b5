package runhandlers

import "net/http"

// Handlers serves the run HTTP endpoints.
type Handlers interface {
	HandleCreateRun(w http.ResponseWriter, r *http.Request)
	HandleSubmitResults(w http.ResponseWriter, r *http.Request)
	HandleGetRun(w http.ResponseWriter, r *http.Request)
	HandleListMyRuns(w http.ResponseWriter, r *http.Request)
}
