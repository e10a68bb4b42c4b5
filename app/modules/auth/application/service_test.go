package authservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
	authverifier "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/verifier"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(v *FakeVerifier, repo *FakeAllowlistRepo) *AuthService {
	return NewAuthService(
		v,
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoopMetrics(),
		noop.NewTracerProvider().Tracer("test"),
	)
}

// allowlist builds a repo admitting exactly the given keys.
func allowlist(entries ...string) *FakeAllowlistRepo {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		set[e] = true
	}
	return &FakeAllowlistRepo{
		AnyAllowedFunc: func(ctx context.Context, db bun.IDB, keys []string) (bool, error) {
			for _, k := range keys {
				if set[k] {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	v := &FakeVerifier{VerifyFunc: func(ctx context.Context, token string) (*authdomain.User, error) {
		if token == "good" {
			return &authdomain.User{ID: "user-1", Email: "ada@example.com"}, nil
		}
		return nil, authverifier.ErrExpiredToken
	}}
	svc := newTestService(v, allowlist())

	user, err := svc.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = svc.Authenticate(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Authorize(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		repo        *FakeAllowlistRepo
		expectedErr error
		wantTrace   []string
	}{
		{name: "exact address", email: "ada@example.com", repo: allowlist("ada@example.com"), wantTrace: []string{"AnyAllowed"}},
		{name: "domain pattern", email: "grace@school.edu", repo: allowlist("*@school.edu"), wantTrace: []string{"AnyAllowed"}},
		{name: "not allowlisted", email: "eve@example.com", repo: allowlist("ada@example.com"), expectedErr: ErrForbidden, wantTrace: []string{"AnyAllowed"}},
		{name: "no email", email: "", repo: allowlist("ada@example.com"), expectedErr: ErrForbidden},
		{name: "no user", repo: allowlist("ada@example.com"), expectedErr: ErrUnauthorized},
		{
			name:  "store failure",
			email: "ada@example.com",
			repo: &FakeAllowlistRepo{AnyAllowedFunc: func(ctx context.Context, db bun.IDB, keys []string) (bool, error) {
				return false, errors.New("connection refused")
			}},
			wantTrace: []string{"AnyAllowed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &FakeVerifier{VerifyFunc: func(ctx context.Context, token string) (*authdomain.User, error) {
				t.Fatal("Authorize must not re-verify the token")
				return nil, nil
			}}
			svc := newTestService(v, tt.repo)

			var user *authdomain.User
			if tt.name != "no user" {
				user = &authdomain.User{ID: "user-1", Email: tt.email}
			}
			err := svc.Authorize(context.Background(), user)

			assert.Equal(t, tt.wantTrace, tt.repo.Trace())
			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.name == "store failure":
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrForbidden)
				assert.NotErrorIs(t, err, ErrUnauthorized)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestAuthService_AdminStatus(t *testing.T) {
	svc := newTestService(&FakeVerifier{}, allowlist("*@example.com"))

	status, err := svc.AdminStatus(context.Background(), &authdomain.User{ID: "u", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, &AdminStatus{IsAdmin: true, Detail: "ada@example.com is allowlisted"}, status)

	status, err = svc.AdminStatus(context.Background(), &authdomain.User{ID: "u", Email: "eve@other.com"})
	require.NoError(t, err)
	assert.False(t, status.IsAdmin)
	assert.Equal(t, "eve@other.com is not in admin_allowlist", status.Detail)

	status, err = svc.AdminStatus(context.Background(), &authdomain.User{ID: "u"})
	require.NoError(t, err)
	assert.False(t, status.IsAdmin)
	assert.Equal(t, "account has no email address", status.Detail)
}

func TestAuthService_ManageAllowlist(t *testing.T) {
	var added, removed string
	repo := &FakeAllowlistRepo{
		AddFunc: func(ctx context.Context, db bun.IDB, email string) error {
			added = email
			return nil
		},
		RemoveFunc: func(ctx context.Context, db bun.IDB, email string) error {
			if email == "missing@example.com" {
				return authdb.ErrNotFound
			}
			removed = email
			return nil
		},
		ListFunc: func(ctx context.Context, db bun.IDB) ([]authdb.AllowlistEntry, error) {
			return []authdb.AllowlistEntry{{Email: "*@school.edu"}, {Email: "ada@example.com"}}, nil
		},
	}
	svc := newTestService(&FakeVerifier{}, repo)
	ctx := context.Background()

	entry, err := svc.AddAdmin(ctx, " *@School.EDU ")
	require.NoError(t, err)
	assert.Equal(t, "*@school.edu", entry)
	assert.Equal(t, "*@school.edu", added)

	_, err = svc.AddAdmin(ctx, "not-an-email")
	assert.ErrorIs(t, err, authdomain.ErrInvalidEntry)

	require.NoError(t, svc.RemoveAdmin(ctx, "Ada@Example.com"))
	assert.Equal(t, "ada@example.com", removed)

	err = svc.RemoveAdmin(ctx, "missing@example.com")
	assert.ErrorIs(t, err, authdb.ErrNotFound)

	entries, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, []string{"Add", "Remove", "Remove", "List"}, repo.Trace())
}
