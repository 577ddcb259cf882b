// handlers/achievement_routes.go
package handlers

import (
	"fitquest-platform/middleware"
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAchievementRoutes(app *fiber.App, achievements *services.AchievementService) {
	// Public catalog. The gateway forwards /api/v1/achievements -> /achievements
	app.Get("/achievements", func(c *fiber.Ctx) error {
		list, err := achievements.GetAllAchievements(
			c.Query("category"),
			c.Query("rarity"),
			c.Query("hideHidden") == "true",
		)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(list),
			"data":    fiber.Map{"achievements": list},
		})
	})

	app.Get("/achievements/:achievementId", func(c *fiber.Ctx) error {
		achievement, err := achievements.GetAchievement(c.Params("achievementId"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"achievement": achievement},
		})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/achievements/user/:userId", func(c *fiber.Ctx) error {
		views, stats, err := achievements.GetUserAchievements(c.Params("userId"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"achievements": views,
				"stats":        stats,
			},
		})
	})

	secured.Post("/achievements/check", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		result, err := achievements.CheckAchievements(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    result,
		})
	})
}
