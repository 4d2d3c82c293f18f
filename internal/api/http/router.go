package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcgcontrol/panel-service/internal/api/http/handlers"
	"github.com/gcgcontrol/panel-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Analysts       *handlers.AnalystsHandler
	Messages       *handlers.MessagesHandler
	Announcements  *handlers.AnnouncementsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)

	analysts := app.Group("/analysts", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	analysts.Get("/", cfg.Analysts.List)
	analysts.Post("/heartbeat", cfg.Analysts.Heartbeat)
	analysts.Put("/profile", cfg.Analysts.SaveProfile)
	analysts.Put("/:id/status", cfg.Analysts.SetStatus)
	analysts.Delete("/:id", auth.RequireAdmin(), cfg.Analysts.Delete)

	messages := app.Group("/messages", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	messages.Get("/", cfg.Messages.List)
	messages.Post("/", cfg.Messages.Send)
	messages.Get("/suggestions", cfg.Messages.Suggest)
	messages.Delete("/:id", cfg.Messages.Delete)
	messages.Delete("/", auth.RequireAdmin(), cfg.Messages.Clear)
	messages.Put("/retention", auth.RequireAdmin(), cfg.Messages.SetRetention)

	announcements := app.Group("/announcements", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	announcements.Get("/", cfg.Announcements.List)
	announcements.Post("/", auth.RequireAdmin(), cfg.Announcements.Create)
	announcements.Put("/:id", auth.RequireAdmin(), cfg.Announcements.Update)
	announcements.Delete("/:id", auth.RequireAdmin(), cfg.Announcements.Delete)
}
