package authverifier

import (
	"context"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
// Implementations fail closed: any doubt is an error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*authdomain.User, error)
}
