package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ignitron2k25/ignitron-api/internal/config"
	"github.com/ignitron2k25/ignitron-api/internal/handler"
	"github.com/ignitron2k25/ignitron-api/internal/middleware"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	CollegeHandler     *handler.CollegeHandler
	EventHandler       *handler.EventHandler
	ResultHandler      *handler.ResultHandler
	LeaderboardHandler *handler.LeaderboardHandler
	JWTMiddleware      fiber.Handler
	LoginRateLimit     fiber.Handler
}

// Register wires the HTTP and websocket routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		if deps.LoginRateLimit != nil {
			deps.AuthHandler.RegisterPublic(auth.Group("", deps.LoginRateLimit))
		} else {
			deps.AuthHandler.RegisterPublic(auth)
		}
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
		deps.AuthHandler.RegisterAdmin(auth.Group("", jwtMiddleware, adminOnly))

		admin := api.Group("/admin", jwtMiddleware, adminOnly)
		deps.AuthHandler.RegisterUserAdmin(admin.Group("/users"))
	}

	if deps.CollegeHandler != nil {
		colleges := api.Group("/colleges")
		deps.CollegeHandler.RegisterPublic(colleges)
		deps.CollegeHandler.RegisterAdmin(colleges.Group("", jwtMiddleware, adminOnly))
	}

	if deps.EventHandler != nil {
		events := api.Group("/events")
		deps.EventHandler.RegisterPublic(events)
		deps.EventHandler.RegisterProtected(events.Group("", jwtMiddleware))
		deps.EventHandler.RegisterAdmin(events.Group("", jwtMiddleware, adminOnly))
	}

	if deps.ResultHandler != nil {
		results := api.Group("/results")
		deps.ResultHandler.RegisterPublic(results)
		deps.ResultHandler.RegisterProtected(results.Group("", jwtMiddleware))
	}

	if deps.LeaderboardHandler != nil {
		deps.LeaderboardHandler.RegisterPublic(api.Group("/leaderboard"))
		deps.LeaderboardHandler.RegisterWebsocket(app.Group("/ws"))
	}
}
