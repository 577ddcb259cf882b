// handlers/leaderboard_routes.go
package handlers

import (
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLeaderboardRoutes is only registered when Redis is configured.
func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	app.Get("/leaderboard/xp", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 25)

		entries, err := leaderboard.Top(c.Context(), limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"leaderboard": entries},
		})
	})
}
