// handlers/skill_routes.go
package handlers

import (
	"fitquest-platform/middleware"
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSkillRoutes(app *fiber.App, skills *services.SkillService) {
	app.Get("/skills/trees", func(c *fiber.Ctx) error {
		trees, err := skills.GetSkillTrees()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"skill_trees": trees},
		})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/skills/user/:userId", func(c *fiber.Ctx) error {
		views, err := skills.GetUserSkills(c.Params("userId"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"skills": views},
		})
	})

	secured.Post("/skills/unlock", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			SkillNodeID string `json:"skill_node_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_BODY",
				"message": "invalid JSON",
			})
		}

		result, err := skills.UnlockSkill(userID, req.SkillNodeID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Skill unlocked successfully",
			"data": fiber.Map{
				"skill":         result.Skill,
				"current_level": result.CurrentLevel,
				"remaining_xp":  result.RemainingXP,
			},
		})
	})
}
