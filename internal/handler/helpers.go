package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ictbranch/intake-api/internal/middleware"
)

// actorFromContext returns the administrator identity recorded on
// approvals and rejections. Legacy tokens without a name claim fall back
// to the generic actor.
func actorFromContext(c *fiber.Ctx) string {
	if v := c.Locals("actor"); v != nil {
		if actor, ok := v.(string); ok && strings.TrimSpace(actor) != "" {
			return strings.TrimSpace(actor)
		}
	}
	return "admin"
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
