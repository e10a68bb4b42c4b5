package authhandlers

import (
	"context"

	authservice "github.com/mint-edu/mint-backend/app/modules/auth/application"
	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
)

type FakeService struct {
	AuthenticateFunc func(ctx context.Context, token string) (*authdomain.User, error)
	AdminStatusFunc  func(ctx context.Context, user *authdomain.User) (*authservice.AdminStatus, error)
	AuthorizeFunc    func(ctx context.Context, user *authdomain.User) error
}

func (f *FakeService) Authenticate(ctx context.Context, token string) (*authdomain.User, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, token)
	}
	return nil, authservice.ErrUnauthorized
}

func (f *FakeService) AdminStatus(ctx context.Context, user *authdomain.User) (*authservice.AdminStatus, error) {
	if f.AdminStatusFunc != nil {
		return f.AdminStatusFunc(ctx, user)
	}
	return &authservice.AdminStatus{}, nil
}

func (f *FakeService) Authorize(ctx context.Context, user *authdomain.User) error {
	if f.AuthorizeFunc != nil {
		return f.AuthorizeFunc(ctx, user)
	}
	return authservice.ErrUnauthorized
}

func (f *FakeService) AddAdmin(ctx context.Context, entry string) (string, error) { return entry, nil }

func (f *FakeService) RemoveAdmin(ctx context.Context, entry string) error { return nil }

func (f *FakeService) ListAdmins(ctx context.Context) ([]authdb.AllowlistEntry, error) {
	return nil, nil
}

var _ authservice.Service = (*FakeService)(nil)
