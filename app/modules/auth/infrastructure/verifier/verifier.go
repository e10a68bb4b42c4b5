package authverifier

import (
	"context"
	"net/http"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	"github.com/mint-edu/mint-backend/config"
)

// New picks the verifier for cfg: local JWT checks when a secret is set, the
// remote user endpoint when a URL and key are set, and a verifier that
// rejects everything otherwise.
func New(cfg config.SupabaseConfig, client *http.Client) TokenVerifier {
	switch {
	case cfg.JWTSecret != "":
		return NewJWTVerifier(cfg.JWTSecret)
	case cfg.URL != "" && cfg.ServiceRoleKey != "":
		return NewGoTrueVerifier(cfg.URL, cfg.ServiceRoleKey, client)
	default:
		return disabled{}
	}
}

type disabled struct{}

func (disabled) Verify(context.Context, string) (*authdomain.User, error) {
	return nil, ErrNotConfigured
}
