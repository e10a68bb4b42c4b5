package authservice

import (
	"context"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Token Verifier
// ------------------------

type FakeVerifier struct {
	VerifyFunc func(ctx context.Context, token string) (*authdomain.User, error)
}

func (f *FakeVerifier) Verify(ctx context.Context, token string) (*authdomain.User, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx, token)
	}
	return &authdomain.User{ID: "user-1", Email: "ada@example.com"}, nil
}

// ------------------------
// Fake Allowlist Repository
// ------------------------

type FakeAllowlistRepo struct {
	trace []string

	AnyAllowedFunc func(ctx context.Context, db bun.IDB, keys []string) (bool, error)
	AddFunc        func(ctx context.Context, db bun.IDB, email string) error
	RemoveFunc     func(ctx context.Context, db bun.IDB, email string) error
	ListFunc       func(ctx context.Context, db bun.IDB) ([]authdb.AllowlistEntry, error)
}

func (f *FakeAllowlistRepo) Trace() []string { return f.trace }

func (f *FakeAllowlistRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeAllowlistRepo) AnyAllowed(ctx context.Context, db bun.IDB, keys []string) (bool, error) {
	f.record("AnyAllowed")
	if f.AnyAllowedFunc != nil {
		return f.AnyAllowedFunc(ctx, db, keys)
	}
	return false, nil
}

func (f *FakeAllowlistRepo) Add(ctx context.Context, db bun.IDB, email string) error {
	f.record("Add")
	if f.AddFunc != nil {
		return f.AddFunc(ctx, db, email)
	}
	return nil
}

func (f *FakeAllowlistRepo) Remove(ctx context.Context, db bun.IDB, email string) error {
	f.record("Remove")
	if f.RemoveFunc != nil {
		return f.RemoveFunc(ctx, db, email)
	}
	return nil
}

func (f *FakeAllowlistRepo) List(ctx context.Context, db bun.IDB) ([]authdb.AllowlistEntry, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return nil, nil
}

var _ authdb.Repository = (*FakeAllowlistRepo)(nil)
