package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/fitpro-app/AgendaBack/internal/services"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

func parseTrainerID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, errors.New("missing user id")
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseMonth(value string) (time.Time, error) {
	return time.Parse(monthLayout, value)
}

func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrTemplateTooLong):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Schedule template exceeds weekly frequency"})
	case errors.Is(err, services.ErrClientLimitReached):
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Active client limit reached on the free plan"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invalid state transition"})
	case errors.Is(err, services.ErrAllUploadsFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "All uploads failed"})
	case errors.Is(err, services.ErrStorageUnconfigured),
		errors.Is(err, services.ErrCheckoutUnconfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Feature not configured"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
}
