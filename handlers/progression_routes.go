// handlers/progression_routes.go
package handlers

import (
	"fitquest-platform/middleware"
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, rewards *services.RewardService, analytics *services.AnalyticsService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/xp/award", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Amount int64  `json:"amount"`
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_BODY",
				"message": "invalid JSON",
			})
		}
		// The service keeps amount 0 as an internal no-op; the exposed
		// endpoint only accepts strictly positive grants.
		if req.Amount <= 0 {
			return fail(c, services.ErrInvalidXP)
		}
		if req.Reason == "" {
			req.Reason = "manual_award"
		}

		result, err := rewards.AwardXP(userID, req.Amount, req.Reason)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    result,
		})
	})

	secured.Get("/xp/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit := c.QueryInt("limit", 50)

		events, err := analytics.XPHistory(userID, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"events": events},
		})
	})
}
