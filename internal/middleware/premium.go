package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/services"
)

// PremiumRequired blocks a route unless the trainer's tier allows the
// feature. Runs after AuthRequired.
func PremiumRequired(gate *services.FeatureGate, feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr, ok := c.Locals("user_id").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		trainerID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		allowed, err := gate.Allows(c.Context(), trainerID, feature)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check plan"})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Premium plan required"})
		}
		return c.Next()
	}
}
