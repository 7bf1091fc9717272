package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/nahanni/placekeeper/internal/pkg/metrics"
)

// SetupRoutes registers all REST routes and shared middleware.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited",
				"too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Health & readiness (no timeout, no caller required)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Place API — caller identity required, 15s per-request timeout.
	// The literal segments (near, bounds) must be registered before :id.
	places := app.Group("/v1/communities/:communityId/places", CallerMiddleware())
	places.Get("/near", timeout.NewWithContext(NearbyPlacesHandler(deps), 15*time.Second))
	places.Get("/bounds", timeout.NewWithContext(BoundsPlacesHandler(deps), 15*time.Second))
	places.Get("/", timeout.NewWithContext(ListPlacesHandler(deps), 15*time.Second))
	places.Post("/", timeout.NewWithContext(CreatePlaceHandler(deps), 15*time.Second))
	places.Get("/:id", timeout.NewWithContext(GetPlaceHandler(deps), 15*time.Second))
	places.Patch("/:id", timeout.NewWithContext(UpdatePlaceHandler(deps), 15*time.Second))
	places.Delete("/:id", timeout.NewWithContext(DeletePlaceHandler(deps), 15*time.Second))
}
