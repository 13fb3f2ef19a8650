package main

import (
	"context"
	"fmt"
	"os"

	"github.com/galleryhub/display-relay/internal/config"
	"github.com/galleryhub/display-relay/internal/repository"
	"github.com/galleryhub/display-relay/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "relay",
		Short: "Discord gallery relay with per-user display settings",
		RunE:  runServe,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing app.yaml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(backfillCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the connections every subcommand needs.
type app struct {
	logger *zap.Logger
	relay  config.RelayConfig
	db     *pgxpool.Pool
	rdb    *redis.Client
	repos  *repository.Repository
}

func bootstrap(ctx context.Context, logger *zap.Logger) (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.InitViper(configPath); err != nil {
		return nil, fmt.Errorf("failed to initialize yaml config: %w", err)
	}

	relayConfig := config.RelayFromViper()
	if err := relayConfig.Validate(); err != nil {
		return nil, err
	}

	db, err := postgres.DB(ctx, config.DBFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL")

	redisConfig := config.RedisFromEnv()
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	return &app{
		logger: logger,
		relay:  relayConfig,
		db:     db,
		rdb:    rdb,
		repos:  repository.New(db, rdb),
	}, nil
}

func (a *app) close() {
	if err := a.rdb.Close(); err != nil {
		a.logger.Sugar().Errorf("failed to close redis client: %s", err.Error())
	}
	a.db.Close()
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
