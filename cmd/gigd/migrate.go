package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gigboard/gigboard/internal/config"
	"github.com/gigboard/gigboard/internal/store/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// New runs pending migrations before returning.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		logger.Info("migrations applied")
		return nil
	},
}
