package authverifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_Verify(t *testing.T) {
	now := time.Now()
	valid := jwt.MapClaims{
		"sub":           "user-123",
		"email":         " Ada@Example.com ",
		"exp":           now.Add(time.Hour).Unix(),
		"user_metadata": map[string]any{"full_name": "Ada Lovelace"},
	}

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		expectedErr error
		wantEmail   string
		wantName    string
	}{
		{
			name:      "success",
			token:     func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid) },
			wantEmail: "ada@example.com",
			wantName:  "Ada Lovelace",
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "u", "exp": now.Add(-time.Hour).Unix()})
			},
			expectedErr: ErrExpiredToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte("another-secret-that-is-long-enough"), valid)
			},
			expectedErr: ErrInvalidSignature,
		},
		{
			name: "missing exp",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "u"})
			},
			expectedErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
			},
			expectedErr: ErrInvalidToken,
		},
		{
			name: "alg none rejected",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)
			},
			expectedErr: ErrInvalidSignature,
		},
		{name: "malformed", token: func(t *testing.T) string { return "not.a.jwt" }, expectedErr: ErrInvalidToken},
		{name: "empty", token: func(t *testing.T) string { return "" }, expectedErr: ErrMissingToken},
	}

	v := NewJWTVerifier(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := v.Verify(context.Background(), tt.token(t))
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-123", user.ID)
			assert.Equal(t, tt.wantEmail, user.Email)
			assert.Equal(t, tt.wantName, user.DisplayName)
		})
	}
}
