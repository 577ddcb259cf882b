// handlers/notification_routes.go
package handlers

import (
	"fitquest-platform/middleware"
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notifications *services.NotificationService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/notifications", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit := c.QueryInt("limit", 50)

		items, err := notifications.ListForUser(userID, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"notifications": items},
		})
	})
}
