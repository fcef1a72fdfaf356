package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when the
// trending cache is disabled.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check pings the database and, if configured, the cache.
// Returns 200 OK with {"status": "healthy"} when everything is reachable.
// The database is required; an unreachable cache only degrades the status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Context()); err != nil {
			log.Warn().Err(err).Msg("health check: cache unreachable")
			return c.JSON(fiber.Map{
				"status": "degraded",
				"cache":  "unreachable",
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}
