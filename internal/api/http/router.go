package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pick-your-pour/signup-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Uniqueness *handlers.UniquenessHandler
	Users      *handlers.UsersHandler
	Uploads    *handlers.UploadsHandler
	Events     *handlers.EventsHandler
}

// RegisterRoutes wires HTTP routes. Paths match the contract the React
// front end was written against.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/test-db", cfg.Health.TestDB)

	app.Post("/check-uniqueness", cfg.Uniqueness.Check)
	app.Post("/create-user", cfg.Users.Create)
	app.Post("/upload-profile", cfg.Uploads.Upload)
	app.Post("/track-event", cfg.Events.Track)
}
