package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/medical-prescription/internal/database"
	"github.com/deppfellow/medical-prescription/internal/handler"
	"github.com/deppfellow/medical-prescription/internal/repository"
	"github.com/deppfellow/medical-prescription/internal/router"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background job worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			return runServer(cmd.Context(), a)
		},
	}
}

func runServer(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Primary.Env != "local" {
		if err := database.Migrate(ctx, &a.logger, a.cfg); err != nil {
			return err
		}
	}

	srv, err := server.New(ctx, a.cfg, &a.logger, a.loggerService)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv.DB)
	services, err := service.NewServices(srv, service.StoresFromRepositories(repos))
	if err != nil {
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers, services))

	return serveUntilDone(ctx, &a.logger, srv.Start, srv.Shutdown)
}

// serveUntilDone runs start until it fails or ctx is cancelled, then shuts
// down. A listener failure is returned even when shutdown succeeds.
func serveUntilDone(ctx context.Context, logger *zerolog.Logger, start func() error, shutdown func(context.Context) error) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- start()
	}()

	var runErr error
	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped unexpectedly")
			runErr = fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, err)
	}

	logger.Info().Msg("server stopped")
	return runErr
}
