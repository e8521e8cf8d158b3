package app

import (
	"hellopage/internal/backend"
	"hellopage/internal/handlers"
	"hellopage/internal/page"
	"hellopage/internal/stats"
	u "hellopage/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/redis/go-redis/v9"
)

// SetupApp creates and configures a new Fiber app instance
func SetupApp(cfg u.Config, redis *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			u.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	RegisterMiddleware(app, cfg)
	RegisterRoutes(app, cfg, redis)

	// Ensure all unmatched routes return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts all route handlers to the app
func RegisterRoutes(app *fiber.App, cfg u.Config, redis *redis.Client) {
	var recorder stats.Recorder = stats.NewMemory()
	if redis != nil {
		recorder = stats.NewRedis(redis, "hellopage")
	}

	renderer := page.NewRenderer(backend.NewClient(cfg.Backend), cfg.Page)
	svc := handlers.NewPageService(renderer, recorder)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/hello", fiber.StatusFound)
	})
	app.Get("/hello", svc.HandlePage)

	v1 := app.Group("/v1")
	v1.Get("/stats", svc.HandleStats)
	v1.Get("/monitor", monitor.New())
}
