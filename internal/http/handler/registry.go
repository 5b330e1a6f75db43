package handler

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"cloudgw/internal/model"
	"cloudgw/internal/service"
)

// InstanceEnvelope wraps a single instance on the wire.
type InstanceEnvelope struct {
	Instance *model.Instance `json:"instance"`
}

// ApplicationEnvelope wraps a single application on the wire.
type ApplicationEnvelope struct {
	Application *model.Application `json:"application"`
}

// ApplicationsEnvelope wraps the full registry on the wire.
type ApplicationsEnvelope struct {
	Applications *model.Applications `json:"applications"`
}

// RegisterInstance godoc
// @Summary Register an instance
// @Tags registry
// @Accept json
// @Param app path string true "Application name"
// @Param body body InstanceEnvelope true "Instance"
// @Success 204
// @Failure 400 {object} errorPayload
// @Router /eureka/apps/{app} [post]
func RegisterInstance(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req InstanceEnvelope
		if err := json.Unmarshal(c.Body(), &req); err != nil || req.Instance == nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INSTANCE", "instance body is required")
		}

		app := model.NormalizeApp(pathParam(c, "app"))
		if req.Instance.App == "" {
			req.Instance.App = app
		}
		if model.NormalizeApp(req.Instance.App) != app {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INSTANCE", "instance app does not match path")
		}

		if err := svc.Register(c.UserContext(), req.Instance); err != nil {
			return registryError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RenewInstance godoc
// @Summary Renew an instance lease
// @Tags registry
// @Param app path string true "Application name"
// @Param id path string true "Instance ID"
// @Success 200
// @Failure 404 {object} errorPayload
// @Router /eureka/apps/{app}/{id} [put]
func RenewInstance(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Renew(c.UserContext(), pathParam(c, "app"), pathParam(c, "id")); err != nil {
			return registryError(c, err)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

// CancelInstance godoc
// @Summary Cancel an instance
// @Tags registry
// @Param app path string true "Application name"
// @Param id path string true "Instance ID"
// @Success 200
// @Failure 404 {object} errorPayload
// @Router /eureka/apps/{app}/{id} [delete]
func CancelInstance(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Cancel(c.UserContext(), pathParam(c, "app"), pathParam(c, "id")); err != nil {
			return registryError(c, err)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

// SetInstanceStatus godoc
// @Summary Override an instance status
// @Tags registry
// @Param app path string true "Application name"
// @Param id path string true "Instance ID"
// @Param value query string true "UP, DOWN, STARTING, OUT_OF_SERVICE or UNKNOWN"
// @Success 200
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /eureka/apps/{app}/{id}/status [put]
func SetInstanceStatus(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := model.InstanceStatus(c.Query("value"))
		if err := svc.SetStatus(c.UserContext(), pathParam(c, "app"), pathParam(c, "id"), status); err != nil {
			return registryError(c, err)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListApplications godoc
// @Summary List every registered application
// @Tags registry
// @Produce json
// @Success 200 {object} ApplicationsEnvelope
// @Router /eureka/apps [get]
func ListApplications(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apps, err := svc.Applications(c.UserContext())
		if err != nil {
			return registryError(c, err)
		}
		return c.JSON(ApplicationsEnvelope{Applications: apps})
	}
}

// GetApplication godoc
// @Summary Get one application
// @Tags registry
// @Produce json
// @Param app path string true "Application name"
// @Success 200 {object} ApplicationEnvelope
// @Failure 404 {object} errorPayload
// @Router /eureka/apps/{app} [get]
func GetApplication(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		app, err := svc.Application(c.UserContext(), pathParam(c, "app"))
		if err != nil {
			return registryError(c, err)
		}
		return c.JSON(ApplicationEnvelope{Application: app})
	}
}

// GetInstance godoc
// @Summary Get one instance
// @Tags registry
// @Produce json
// @Param app path string true "Application name"
// @Param id path string true "Instance ID"
// @Success 200 {object} InstanceEnvelope
// @Failure 404 {object} errorPayload
// @Router /eureka/apps/{app}/{id} [get]
func GetInstance(svc service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		inst, err := svc.Instance(c.UserContext(), pathParam(c, "app"), pathParam(c, "id"))
		if err != nil {
			return registryError(c, err)
		}
		return c.JSON(InstanceEnvelope{Instance: inst})
	}
}

// pathParam returns a route parameter with percent-escapes decoded, so ids
// such as "host:app:8080" or "node 1" round-trip through escaped client paths.
func pathParam(c *fiber.Ctx, key string) string {
	v := c.Params(key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// registryError translates service errors into the error envelope.
func registryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInstance):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INSTANCE", "invalid instance")
	case errors.Is(err, service.ErrInvalidStatus):
		return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status")
	case errors.Is(err, service.ErrInstanceNotFound):
		return writeError(c, fiber.StatusNotFound, "INSTANCE_NOT_FOUND", "instance not found")
	case errors.Is(err, service.ErrApplicationNotFound):
		return writeError(c, fiber.StatusNotFound, "APPLICATION_NOT_FOUND", "application not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
