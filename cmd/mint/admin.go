package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mint-edu/mint-backend/app/modules/auth"
	authservice "github.com/mint-edu/mint-backend/app/modules/auth/application"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
	authverifier "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/verifier"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/urfave/cli/v2"
)

// withAllowlist opens the database and hands an allowlist service to fn.
func withAllowlist(c *cli.Context, fn func(ctx context.Context, svc authservice.Service) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	obs := newObservability(cfg)
	obs.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := bundb.Open(c.Context, cfg.Postgres.DSN, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := auth.NewService(authverifier.New(cfg.Supabase, nil), db, obs, obs.Logger)
	return fn(c.Context, svc)
}

func newAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "manage the admin allowlist",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "allowlist an address or *@domain",
				ArgsUsage: "<email|*@domain>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one entry", 2)
					}
					return withAllowlist(c, func(ctx context.Context, svc authservice.Service) error {
						entry, err := svc.AddAdmin(ctx, c.Args().First())
						if err != nil {
							return err
						}
						fmt.Printf("Added %s\n", entry)
						return nil
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "remove an allowlist entry",
				ArgsUsage: "<email|*@domain>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one entry", 2)
					}
					return withAllowlist(c, func(ctx context.Context, svc authservice.Service) error {
						err := svc.RemoveAdmin(ctx, c.Args().First())
						if errors.Is(err, authdb.ErrNotFound) {
							return cli.Exit(fmt.Sprintf("%s is not allowlisted", c.Args().First()), 1)
						}
						if err != nil {
							return err
						}
						fmt.Printf("Removed %s\n", c.Args().First())
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "print the allowlist",
				Action: func(c *cli.Context) error {
					return withAllowlist(c, func(ctx context.Context, svc authservice.Service) error {
						entries, err := svc.ListAdmins(ctx)
						if err != nil {
							return err
						}
						for _, e := range entries {
							fmt.Printf("%s\t%s\n", e.Email, e.CreatedAt.Format("2006-01-02"))
						}
						return nil
					})
				},
			},
		},
	}
}
