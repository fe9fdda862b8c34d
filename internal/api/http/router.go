package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lab-rental-service/internal/api/http/handlers"
	"github.com/spec-kit/lab-rental-service/internal/auth"
	"github.com/spec-kit/lab-rental-service/internal/domain"
	"github.com/spec-kit/lab-rental-service/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Rentals        *handlers.RentalsHandler
	AuthMiddleware *auth.AuthMiddleware
	Users          repository.UserRepository
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/token/access", cfg.AuthMiddleware.Handle, cfg.Auth.RotateAccess)
	authGroup.Get("/check_token", cfg.AuthMiddleware.Handle, cfg.Auth.CheckToken)

	lap := app.Group("/lap", cfg.AuthMiddleware.Handle)
	lap.Post("", auth.RequireRole(cfg.Users, domain.RoleUser), cfg.Rentals.Create)
	lap.Get("", cfg.Rentals.List)
	// static segments before the :id wildcard
	lap.Get("/approved", auth.RequireRole(cfg.Users, domain.RoleAdmin), cfg.Rentals.ListPendingApproval)
	lap.Get("/deletion", auth.RequireRole(cfg.Users, domain.RoleAdmin), cfg.Rentals.ListPendingDeletion)
	lap.Get("/user/:id", cfg.Rentals.ListByUser)
	lap.Get("/:id", cfg.Rentals.Get)
	lap.Patch("/:id", auth.RequireRole(cfg.Users, domain.RoleAdmin), cfg.Rentals.Update)
	lap.Delete("", auth.RequireRole(cfg.Users, domain.RoleAdmin), cfg.Rentals.DeleteAll)
}
