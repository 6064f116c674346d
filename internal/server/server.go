// Package server wires the long lived dependencies (database, Redis, job
// worker, HTTP listener) behind one struct shared by every layer.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/medical-prescription/internal/config"
	"github.com/deppfellow/medical-prescription/internal/database"
	"github.com/deppfellow/medical-prescription/internal/lib/job"
	loggerPkg "github.com/deppfellow/medical-prescription/internal/logger"
)

type Server struct {
	Config         *config.Config
	Logger         *zerolog.Logger
	LoggerService  *loggerPkg.LoggerService
	DB             *database.Database
	Redis          *redis.Client
	// RedisAvailable reports whether Redis answered at startup. When it did
	// not, the cache and job queue stay off for the life of the process.
	RedisAvailable bool
	Job            *job.JobService
	httpServer     *http.Server
}

func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(ctx, cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	redisAvailable := true
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// Disease searches go straight to the database and e-mails are off.
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without cache and jobs")
		redisAvailable = false
	}

	var jobService *job.JobService
	if redisAvailable {
		jobService = job.NewJobService(logger, cfg)
		if err := jobService.Start(); err != nil {
			_ = db.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("failed to start job server: %w", err)
		}
	}

	return &Server{
		Config:         cfg,
		Logger:         logger,
		LoggerService:  loggerService,
		DB:             db,
		Redis:          redisClient,
		RedisAvailable: redisAvailable,
		Job:            jobService,
	}, nil
}

func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains HTTP first so in-flight requests can still enqueue jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to close redis client")
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
