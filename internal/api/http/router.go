package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/raffle-service/internal/api/http/handlers"
	"github.com/spec-kit/raffle-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Gateway        *handlers.GatewayHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	GatewayToken   string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	gw := app.Group("/gateway", auth.GatewayAuth(cfg.GatewayToken))
	gw.Post("/contacts", cfg.Gateway.Contact)
	gw.Post("/participants/:handle/registration/full-name", cfg.Gateway.SubmitFullName)
	gw.Post("/participants/:handle/registration/phone", cfg.Gateway.SubmitPhone)
	gw.Get("/participants/:handle/offerings", cfg.Gateway.Offerings)
	gw.Get("/participants/:handle/payments", cfg.Gateway.MyTickets)
	gw.Post("/participants/:handle/payments", cfg.Gateway.SubmitPayment)
	gw.Get("/tickets/:id/instructions", cfg.Gateway.Instructions)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireActor())
	admin.Get("/payments/pending", cfg.Admin.ListPending)
	admin.Post("/payments/:id/confirm", cfg.Admin.Confirm)
	admin.Post("/payments/:id/reject", cfg.Admin.Reject)
	admin.Get("/participants", cfg.Admin.Participants)
	admin.Get("/participants/paid", cfg.Admin.PaidParticipants)
	admin.Get("/lottery", cfg.Admin.Lottery)
}
