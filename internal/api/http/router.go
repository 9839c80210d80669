package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/campus-booking/internal/api/http/handlers"
	"github.com/spec-kit/campus-booking/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Session   *handlers.SessionHandler
	Users     *handlers.UsersHandler
	Resources *handlers.ResourcesHandler
	Bookings  *handlers.BookingsHandler
	Admin     *handlers.AdminHandler
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Fixed segments are registered before
// their /:id siblings.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	app.Post("/login", cfg.Session.Login)
	app.Post("/logout", cfg.Session.Logout)
	app.Get("/admin/stats", cfg.Admin.Stats)

	users := app.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/by_status", cfg.Users.ByStatus)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	resources := app.Group("/resources")
	resources.Get("/", cfg.Resources.List)
	resources.Post("/", cfg.Resources.Create)
	resources.Get("/available", cfg.Resources.Available)
	resources.Get("/:id", cfg.Resources.Get)
	resources.Put("/:id", cfg.Resources.Update)
	resources.Patch("/:id", cfg.Resources.Update)
	resources.Delete("/:id", cfg.Resources.Delete)

	bookings := app.Group("/bookings")
	bookings.Get("/", cfg.Bookings.List)
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Get("/upcoming", cfg.Bookings.Upcoming)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Delete("/:id", cfg.Bookings.Delete)
	bookings.Post("/:id/approve", cfg.Bookings.Approve)
	bookings.Post("/:id/reject", cfg.Bookings.Reject)
}
