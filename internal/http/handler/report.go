package handler

import (
	"github.com/gofiber/fiber/v2"

	"cloudgw/internal/service"
)

// Report returns a handler that answers with a fixed plain-text message.
// It has no inputs and never fails.
//
// @Summary Fixed report message
// @Tags report
// @Produce plain
// @Success 200 {string} string
// @Router /customer-api/report [get]
// @Router /employee-api/report [get]
func Report(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString(message)
	}
}

// RegisterReportRoutes mounts the report endpoint of r under its base path.
func RegisterReportRoutes(app *fiber.App, r service.Report) {
	app.Get(r.BasePath+"/report", Report(r.Message))
}
