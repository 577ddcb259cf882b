package handlers

import (
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
)

// fail maps domain errors to the platform's error envelope; anything without
// an AppError in its chain is a 500.
func fail(c *fiber.Ctx, err error) error {
	if ae, ok := services.AsAppError(err); ok {
		return c.Status(ae.Status).JSON(fiber.Map{
			"success": false,
			"error":   ae.Code,
			"message": ae.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "INTERNAL_SERVER_ERROR",
		"message": err.Error(),
	})
}
