package main

import (
	"github.com/galleryhub/display-relay/internal/repository/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			a, err := bootstrap(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := postgres.Migrate(cmd.Context(), a.db); err != nil {
				return err
			}

			logger.Info("Schema applied")
			return nil
		},
	}
}
