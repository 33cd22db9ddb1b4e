package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lumilearn/lumilearn-api/internal/config"
	"github.com/lumilearn/lumilearn-api/internal/handler"
	"github.com/lumilearn/lumilearn-api/internal/middleware"
	"github.com/lumilearn/lumilearn-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CatalogHandler    *handler.CatalogHandler
	ProgressHandler   *handler.ProgressHandler
	StatsHandler      *handler.StatsHandler
	PlaybackHandler   *handler.PlaybackHandler
	AdminVideoHandler *handler.AdminVideoHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Catalog is public.
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("/catalog"))
	}

	// Progress and stats belong to the authenticated learner.
	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(api.Group("/progress", jwtMiddleware))
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(api.Group("/stats", jwtMiddleware))
	}

	// The playback websocket authenticates on upgrade.
	if deps.PlaybackHandler != nil {
		deps.PlaybackHandler.Register(api.Group("/playback", jwtMiddleware))
	}

	// Authoring surface: admin only, rate limited.
	if deps.AdminVideoHandler != nil {
		admin := api.Group("/admin",
			jwtMiddleware,
			middleware.RequireRole("admin", "teacher"),
			middleware.RateLimit("admin_video", 30, time.Minute),
		)
		deps.AdminVideoHandler.Register(admin)
	}
}
