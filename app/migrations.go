package app

import (
	authmigrations "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories/migrations"
	eventmigrations "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories/migrations"
	runmigrations "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories/migrations"
	"github.com/mint-edu/mint-backend/db/bundb"
)

// Migrations lists every module's migrations. runs references events, so the
// order matters.
func Migrations() []bundb.ModuleMigrations {
	return []bundb.ModuleMigrations{
		{Module: "event", Migrations: eventmigrations.Migrations},
		{Module: "run", Migrations: runmigrations.Migrations},
		{Module: "auth", Migrations: authmigrations.Migrations},
	}
}
