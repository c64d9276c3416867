package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers bundles everything the router needs
type Handlers struct {
	Views     *Views
	Sessions  *SessionMiddleware
	Auth      *AuthHandler
	Planillas *PlanillaHandler
	Admin     *AdminHandler
	Exports   *ExportHandler
	Health    *HealthHandler
}

// NewApp builds the Fiber app with the dashboard's error handling and routes
func NewApp(h Handlers, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "planillas-dashboard",
		ErrorHandler: ErrorHandler(h.Views, h.Sessions),
		BodyLimit:    4 << 20,
	})

	app.Use(recover.New())
	if accessLog {
		app.Use(logger.New())
	}

	RegisterRoutes(app, h)
	return app
}

func RegisterRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.Health)

	app.Get("/", h.Auth.ShowLogin)
	app.Post("/login", h.Auth.Login)
	app.Post("/logout", h.Auth.Logout)

	signedIn := h.Sessions.RequireSession
	app.Get("/home", signedIn, h.Planillas.Home)
	app.Get("/planillas/nueva", signedIn, h.Planillas.NewForm)
	app.Post("/planillas", signedIn, h.Planillas.Create)

	exports := app.Group("/export", signedIn)
	exports.Get("/planillas.:format", h.Exports.Planillas)
	exports.Get("/planillas/:id/detalle.:format", h.Exports.PlanillaDetalle)
	exports.Get("/reportes.:format", h.Sessions.RequireAdmin, h.Exports.Reportes)

	admin := h.Sessions.RequireAdmin
	app.Get("/estadisticas", signedIn, admin, h.Admin.Estadisticas)
	app.Get("/reportes", signedIn, admin, h.Admin.Reportes)
}
