package main

import (
	"fmt"

	"homework_bot/internal/infra/config"
	idb "homework_bot/internal/infra/database"
	"homework_bot/internal/infra/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect database migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("could not load database configuration: %w", err)
	}
	logger.Init(cfg)

	ctx := cmd.Context()
	db, err := idb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()

	migrator, err := idb.NewMigrator(db, logger.Component("migrate"))
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		return migrator.Up(ctx)
	case "down":
		return migrator.Down(ctx)
	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-8s %s\n", s.Version, state, s.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown migrate action %q, want up, down or status", args[0])
	}
}
