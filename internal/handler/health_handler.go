package handler

import (
	"context"
	"time"

	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports the status of the database and the cache.
type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

// NewHealthHandler creates a HealthHandler. cache may be nil when Redis is disabled.
func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check godoc
// @Summary Health check
// @Description Pings the database and the cache
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	status := fiber.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Get().Error("Health check: database ping failed", zap.Error(err))
		resp.Database = "unavailable"
		resp.Status = "degraded"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			// reports still render without the front cache
			logger.Get().Warn("Health check: cache ping failed", zap.Error(err))
			resp.Cache = "unavailable"
			resp.Status = "degraded"
		}
	}
	return c.Status(status).JSON(resp)
}
