package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/http/handlers"
	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/users/logout", cfg.Users.Logout)
	protected.Get("/users/me", cfg.Users.Me)
	protected.Get("/users", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
}
