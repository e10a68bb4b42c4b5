package eventservice

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
)

// SimAdminAudience is the audience claim of sim admin tokens.
const SimAdminAudience = "mint-sim-admin"

// SimAdminClaims are carried by the token embedded in a sim admin link.
type SimAdminClaims struct {
	jwt.RegisteredClaims
	EventCode  string `json:"event_code"`
	EventID    string `json:"event_id"`
	ScenarioID string `json:"scenario_id,omitempty"`
}

// SimLinkSigner mints HS256 sim admin tokens with a shared secret.
type SimLinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSimLinkSigner creates a signer. A non-positive ttl falls back to 15 minutes.
func NewSimLinkSigner(secret string, ttl time.Duration) *SimLinkSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SimLinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token granting adminEmail admin access to the event's simulation.
func (s *SimLinkSigner) Sign(event *eventdb.Event, adminEmail string) (string, error) {
	now := s.now()
	claims := &SimAdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   adminEmail,
			Audience:  jwt.ClaimStrings{SimAdminAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		EventCode:  event.Code,
		EventID:    event.ID.String(),
		ScenarioID: event.ScenarioID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign sim admin token: %w", err)
	}
	return signed, nil
}
