package authservice

import (
	"context"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
)

// Service defines the admin authorization operations.
type Service interface {
	// Authenticate resolves a bearer token. Any verifier error yields
	// ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*authdomain.User, error)

	// AdminStatus reports whether the user is allowlisted and why.
	AdminStatus(ctx context.Context, user *authdomain.User) (*AdminStatus, error)

	// Authorize requires an already authenticated user to be allowlisted.
	// A nil user yields ErrUnauthorized.
	Authorize(ctx context.Context, user *authdomain.User) error

	AddAdmin(ctx context.Context, entry string) (string, error)
	RemoveAdmin(ctx context.Context, entry string) error
	ListAdmins(ctx context.Context) ([]authdb.AllowlistEntry, error)
}

// AdminStatus is the /api/admin/me response body.
type AdminStatus struct {
	IsAdmin bool   `json:"isAdmin"`
	Detail  string `json:"detail"`
}
