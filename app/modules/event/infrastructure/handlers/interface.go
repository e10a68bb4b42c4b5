package eventhandlers

import "net/http"

// Handlers serves the event HTTP endpoints.
type Handlers interface {
	HandleListPublicEvents(w http.ResponseWriter, r *http.Request)
	HandleListEvents(w http.ResponseWriter, r *http.Request)
	HandleCreateEvent(w http.ResponseWriter, r *http.Request)
	HandleUpdateState(w http.ResponseWriter, r *http.Request)
	HandleSimAdminLink(w http.ResponseWriter, r *http.Request)
	HandleListAutoEndJobs(w http.ResponseWriter, r *http.Request)
}
