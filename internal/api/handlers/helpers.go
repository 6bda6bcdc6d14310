package handlers

import (
	"errors"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/dto"
	"fin-dashboard/internal/models"
	"fin-dashboard/internal/service"
	"fin-dashboard/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getUserID returns the authenticated owner id set by the auth middleware.
func getUserID(c *fiber.Ctx) (string, error) {
	userIDStr, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return "", fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", fiber.ErrUnauthorized
	}

	return userID.String(), nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func tableParam(c *fiber.Ctx) (models.Table, error) {
	table, err := models.ParseTable(c.Params("table"))
	if err != nil {
		return "", errors.Join(dispatch.ErrUnknownTable, err)
	}
	return table, nil
}

// errorStatus maps the error taxonomy to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrDispatchInFlight):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrUnsupportedFile):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	}

	switch dispatch.Kind(err) {
	case "no_document", "invalid_payload", "missing_identifier", "missing_required_field", "unknown_operation":
		return fiber.StatusBadRequest
	case "unknown_table":
		return fiber.StatusNotFound
	case "store_error", "upstream_service_error":
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	resp := dto.ErrorResponse{Error: err.Error(), Kind: dispatch.Kind(err)}
	if status == fiber.StatusInternalServerError {
		resp.Error = "Internal server error"
	}
	if errors.Is(err, service.ErrDispatchInFlight) {
		resp.Kind = "dispatch_in_flight"
	}
	return c.Status(status).JSON(resp)
}
