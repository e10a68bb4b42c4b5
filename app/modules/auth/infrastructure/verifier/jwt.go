package authverifier

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
)

// accessClaims is the subset of a Supabase access token we read.
type accessClaims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email,omitempty"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	DisplayName string `json:"display_name,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Name        string `json:"name,omitempty"`
}

func (m userMetadata) displayName() string {
	for _, v := range []string{m.DisplayName, m.FullName, m.Name} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// JWTVerifier checks HS256 access tokens locally against the project secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify validates the signature and expiry and returns the token subject.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*authdomain.User, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &authdomain.User{
		ID:          claims.Subject,
		Email:       authdomain.NormalizeEmail(claims.Email),
		DisplayName: claims.UserMetadata.displayName(),
	}, nil
}
