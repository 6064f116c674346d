// Command medrx runs the prescription API and its maintenance tasks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/medical-prescription/internal/config"
	"github.com/deppfellow/medical-prescription/internal/database"
	loggerPkg "github.com/deppfellow/medical-prescription/internal/logger"
	"github.com/deppfellow/medical-prescription/internal/repository"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "medrx",
		Short:         "Medical prescription API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(professionalCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the configuration and logging every command starts from.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *loggerPkg.LoggerService
}

func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := loggerPkg.NewLoggerService(cfg.Observability)
	logger := loggerPkg.NewLoggerWithService(cfg.Observability, loggerService)

	return &app{cfg: cfg, logger: logger, loggerService: loggerService}, nil
}

func (a *app) close() {
	a.loggerService.Shutdown()
}

// offlineServer connects to the database only. The maintenance commands do
// not need Redis or the job server.
func (a *app) offlineServer(ctx context.Context) (*server.Server, service.Stores, error) {
	db, err := database.New(ctx, a.cfg, &a.logger, a.loggerService)
	if err != nil {
		return nil, service.Stores{}, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &server.Server{
		Config:        a.cfg,
		Logger:        &a.logger,
		LoggerService: a.loggerService,
		DB:            db,
	}

	return s, service.StoresFromRepositories(repository.NewRepositories(db)), nil
}
