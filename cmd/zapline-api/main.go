package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/zapline/zapline/pkg/log"
	"github.com/zapline/zapline/pkg/persistence/file"
	"github.com/zapline/zapline/pkg/registry"
	"github.com/zapline/zapline/pkg/workflow"
)

const defaultPort = 8080

func main() {
	cmd := &cli.Command{
		Name:                  "zapline-api",
		Usage:                 "Create, trigger and inspect workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory for workflow and run storage",
				Value:   "./.zapline",
				Sources: cli.EnvVars("DATA_DIR"),
			},
			&cli.IntFlag{
				Name:    "max-concurrent-runs",
				Usage:   "Upper bound on concurrently executing runs",
				Value:   workflow.DefaultMaxConcurrentRuns,
				Sources: cli.EnvVars("MAX_CONCURRENT_RUNS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing Zapline API")

			persistence := file.NewPersistence(command.String("data-dir"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			reg := registry.NewDefaultRegistry(log.WithModule("registry"))
			engine := workflow.NewEngine(persistence, reg, log.WithModule("engine"), command.Int("max-concurrent-runs"))

			api := NewAPI(logger, persistence, reg, engine)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
				return err
			}

			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
