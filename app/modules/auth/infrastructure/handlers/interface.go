package authhandlers

import "net/http"

// Handlers defines the auth HTTP handlers and middleware.
type Handlers interface {
	HandleAdminMe(w http.ResponseWriter, r *http.Request)

	// ResolveIdentity attaches the caller to the request when a valid bearer
	// token is present. Requests without one pass through untouched.
	ResolveIdentity(next http.Handler) http.Handler

	// RequireAdmin rejects requests whose caller is not allowlisted. It reads
	// the caller set by ResolveIdentity, so it must run after it.
	RequireAdmin(next http.Handler) http.Handler
}
