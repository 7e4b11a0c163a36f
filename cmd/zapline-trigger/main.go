// Command zapline-trigger starts a run for a stored workflow and waits for
// it to reach a terminal state, printing the final run record as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/zapline/zapline/pkg/log"
	"github.com/zapline/zapline/pkg/persistence/file"
	"github.com/zapline/zapline/pkg/registry"
	"github.com/zapline/zapline/pkg/workflow"
)

func main() {
	cmd := &cli.Command{
		Name:      "zapline-trigger",
		Usage:     "Trigger a workflow run and wait for its terminal state",
		ArgsUsage: "<workflow-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory for workflow and run storage",
				Value:   "./.zapline",
				Sources: cli.EnvVars("DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    "context",
				Aliases: []string{"c"},
				Usage:   "Initial run context as a JSON object",
				Value:   "{}",
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

			workflowID := command.Args().First()
			if workflowID == "" {
				return fmt.Errorf("workflow id is required")
			}

			var initialContext map[string]any
			if err := json.Unmarshal([]byte(command.String("context")), &initialContext); err != nil {
				return fmt.Errorf("invalid context JSON: %w", err)
			}

			persistence := file.NewPersistence(command.String("data-dir"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					log.WithModule("trigger").ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			reg := registry.NewDefaultRegistry(log.WithModule("registry"))
			engine := workflow.NewEngine(persistence, reg, log.WithModule("engine"), workflow.DefaultMaxConcurrentRuns)

			run, err := engine.StartRun(ctx, workflowID, initialContext)
			if err != nil {
				return fmt.Errorf("failed to start run: %w", err)
			}

			engine.Wait()

			final, err := persistence.RunRepository().GetByID(ctx, run.RunID)
			if err != nil {
				return fmt.Errorf("failed to load run %s: %w", run.RunID, err)
			}

			out, err := json.MarshalIndent(final, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))

			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
