package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ictbranch/intake-api/internal/config"
	"github.com/ictbranch/intake-api/internal/handler"
	"github.com/ictbranch/intake-api/internal/middleware"
	"github.com/ictbranch/intake-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SubmissionHandler *handler.SubmissionHandler
	AdminHandler      *handler.AdminHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Public intake endpoints, one per form type, rate limited per IP.
	if deps.SubmissionHandler != nil {
		forms := api.Group("/forms", middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow))
		deps.SubmissionHandler.Register(forms)
	}

	// Use provided JWT middleware, or a no-op if nil.
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := api.Group("/admin", jwtMiddleware)
	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(admin)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(admin)
	}
}
