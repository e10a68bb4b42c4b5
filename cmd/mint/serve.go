package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mint-edu/mint-backend/app"
	"github.com/urfave/cli/v2"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-schema-check",
				Usage: "start even when migrations are pending",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			obs := newObservability(cfg)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, obs, app.Options{SkipSchemaCheck: c.Bool("skip-schema-check")})
			if err != nil {
				obs.Logger.Error("Failed to initialize app", slog.Any("error", err))
				return err
			}

			return application.Run(ctx)
		},
	}
}

