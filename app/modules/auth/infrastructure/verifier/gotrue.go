package authverifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	"golang.org/x/oauth2"
)

const maxUserResponseBytes = 1 << 20

type gotrueUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

// GoTrueVerifier resolves tokens by asking the auth service who they belong to.
type GoTrueVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGoTrueVerifier creates a verifier that calls {baseURL}/auth/v1/user.
// client is the transport the bearer client is layered on and may be nil.
func NewGoTrueVerifier(baseURL, apiKey string, client *http.Client) *GoTrueVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoTrueVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// Verify returns the user the token belongs to. Any non-200 answer is
// treated as an invalid token.
func (v *GoTrueVerifier) Verify(ctx context.Context, token string) (*authdomain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	httpClient := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, v.client),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxUserResponseBytes))
		return nil, fmt.Errorf("%w: auth service answered %d", ErrInvalidToken, resp.StatusCode)
	}

	var u gotrueUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserResponseBytes)).Decode(&u); err != nil {
		return nil, fmt.Errorf("%w: undecodable user: %v", ErrInvalidToken, err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}

	return &authdomain.User{
		ID:          u.ID,
		Email:       authdomain.NormalizeEmail(u.Email),
		DisplayName: u.UserMetadata.displayName(),
	}, nil
}
