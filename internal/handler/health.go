package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/middleware"
	"github.com/deppfellow/medical-prescription/internal/server"
)

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(s)}
}

type dependencyCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                     `json:"status"`
	Timestamp   time.Time                  `json:"timestamp"`
	Environment string                     `json:"environment"`
	Checks      map[string]dependencyCheck `json:"checks"`
}

func (h *HealthHandler) timeout() time.Duration {
	if h.server.Config.Observability == nil {
		return 5 * time.Second
	}
	return h.server.Config.Observability.HealthCheckTimeout()
}

func (h *HealthHandler) check(ctx context.Context, c echo.Context, name string, ping func(context.Context) error) dependencyCheck {
	ctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	logger := middleware.GetLogger(c)

	if err != nil {
		logger.Error().Err(err).Dur("response_time", elapsed).Str("check", name).Msg("health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       name,
				"operation":        "health_check",
				"error_type":       name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}

		return dependencyCheck{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	logger.Debug().Dur("response_time", elapsed).Str("check", name).Msg("health check passed")
	return dependencyCheck{Status: "healthy", ResponseTime: elapsed.String()}
}

// CheckHealth pings Postgres and Redis. Only the database decides the
// status code; without Redis the disease cache is skipped and jobs retry.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	ctx := c.Request().Context()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]dependencyCheck{},
	}

	status := http.StatusOK

	if h.server.DB != nil {
		response.Checks["database"] = h.check(ctx, c, "database", h.server.DB.Pool.Ping)
		if response.Checks["database"].Status != "healthy" {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	if h.server.Redis != nil {
		response.Checks["redis"] = h.check(ctx, c, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		if response.Checks["redis"].Status != "healthy" && status == http.StatusOK {
			response.Status = "degraded"
		}
	}

	return c.JSON(status, response)
}
