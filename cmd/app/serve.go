package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/galleryhub/display-relay/internal/config"
	"github.com/galleryhub/display-relay/internal/gateway"
	"github.com/galleryhub/display-relay/internal/handler"
	"github.com/galleryhub/display-relay/internal/repository/postgres"
	"github.com/galleryhub/display-relay/internal/server"
	"github.com/galleryhub/display-relay/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var skipMigrate bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Discord relay and the read API",
		RunE:  runServe,
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply the schema on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := bootstrap(ctx, logger)
	if err != nil {
		logger.Sugar().Errorf("failed to start: %s", err.Error())
		return err
	}
	defer a.close()

	if !skipMigrate {
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	services := service.New(logger, a.repos, a.relay)

	fatal := make(chan error, 1)
	gw, err := gateway.New(logger, config.DiscordFromEnv(), services, a.relay.AvatarSize, func(err error) {
		select {
		case fatal <- err:
		default:
		}
	})
	if err != nil {
		return err
	}

	handlers := handler.New(logger, services, a.relay.Channels)
	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Run(serverConfig); err != nil {
			return fmt.Errorf("failed to run http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := gw.Open(gctx); err != nil {
			return fmt.Errorf("failed to open discord session: %w", err)
		}
		logger.Info("Relay started")

		select {
		case <-gctx.Done():
			return nil
		case err := <-fatal:
			return fmt.Errorf("relay stopped: %w", err)
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Relay shutting down")

		if err := gw.Close(); err != nil {
			logger.Sugar().Errorf("failed to close discord session: %s", err.Error())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Sugar().Errorf("relay exited with error: %s", err.Error())
		return err
	}

	return nil
}
