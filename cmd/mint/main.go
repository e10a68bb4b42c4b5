package main

import (
	"log"
	"os"

	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "mint",
		Usage: "trading competition backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file; environment variables override it",
				EnvVars: []string{"MINT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newAdminCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.LoadConfig(c.String("config"))
}

func newObservability(cfg *config.Config) observability.Observability {
	return observability.New(observability.Config{
		ServiceName: "mint-backend",
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
	})
}
