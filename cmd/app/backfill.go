package main

import (
	"errors"

	"github.com/galleryhub/display-relay/internal/service"
	"github.com/spf13/cobra"
)

var backfillUserID string

// backfillCmd re-applies a user's stored settings to all of their messages.
// It repairs a settings change whose propagation failed part way.
func backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Re-propagate a user's display settings into stored messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if backfillUserID == "" {
				return errors.New("--user is required")
			}

			logger := newLogger()
			defer logger.Sync()

			a, err := bootstrap(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.close()

			services := service.New(logger, a.repos, a.relay)
			result, err := services.Backfill.Resync(cmd.Context(), backfillUserID)
			if err != nil {
				return err
			}

			logger.Sugar().Infof("backfill of user(%s) done: %d matched, %d updated, %d chunks",
				backfillUserID, result.Matched, result.Updated, result.Chunks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&backfillUserID, "user", "u", "", "platform user ID")

	return cmd
}
