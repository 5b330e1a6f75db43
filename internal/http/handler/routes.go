package handler

import (
	"github.com/gofiber/fiber/v2"

	"cloudgw/internal/service"
)

// RegisterCommonRoutes attaches the health endpoints every process serves.
func RegisterCommonRoutes(app *fiber.App, p Pinger) {
	app.Get("/health", HealthCheck(p))
	app.Get("/healthz", LivenessProbe())
}

// RegisterRegistryRoutes attaches the registry API under /eureka.
func RegisterRegistryRoutes(app *fiber.App, svc service.RegistryService) {
	apps := app.Group("/eureka/apps")
	apps.Get("/", ListApplications(svc))
	apps.Post("/:app", RegisterInstance(svc))
	apps.Get("/:app", GetApplication(svc))
	apps.Get("/:app/:id", GetInstance(svc))
	apps.Put("/:app/:id", RenewInstance(svc))
	apps.Delete("/:app/:id", CancelInstance(svc))
	apps.Put("/:app/:id/status", SetInstanceStatus(svc))
}
