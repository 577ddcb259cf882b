// handlers/quest_routes.go
package handlers

import (
	"time"

	"fitquest-platform/middleware"
	"fitquest-platform/models"
	"fitquest-platform/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func SetupQuestRoutes(app *fiber.App, quests *services.QuestService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/quests", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		filters := services.QuestFilters{
			QuestType:  c.Query("type"),
			Difficulty: c.Query("difficulty"),
			IsActive:   c.QueryBool("is_active", true),
		}
		views, err := quests.GetAvailableQuests(userID, filters)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"quests": views},
		})
	})

	secured.Get("/quests/my-quests", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		views, err := quests.GetMyQuests(userID, c.Query("status"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"quests": views},
		})
	})

	secured.Post("/quests/:questId/start", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		quest, err := quests.StartQuest(userID, c.Params("questId"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Quest started successfully",
			"data":    fiber.Map{"quest": quest},
		})
	})

	secured.Put("/quests/:questId/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Progress           datatypes.JSON `json:"progress"`
			ProgressPercentage int            `json:"progress_percentage"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_BODY",
				"message": "invalid JSON",
			})
		}
		if req.Progress == nil {
			req.Progress = datatypes.JSON([]byte(`{}`))
		}

		if err := quests.UpdateProgress(userID, c.Params("questId"), req.Progress, req.ProgressPercentage); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Progress updated",
		})
	})

	secured.Post("/quests/:questId/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := quests.CompleteQuest(userID, c.Params("questId"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Quest completed successfully",
			"data":    result,
		})
	})

	secured.Delete("/quests/:questId/abandon", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := quests.AbandonQuest(userID, c.Params("questId")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Quest abandoned",
		})
	})

	secured.Post("/admin/quests", func(c *fiber.Ctx) error {
		if !middleware.HasRole(c, "admin", "coach", "founder") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "FORBIDDEN",
				"message": "insufficient role",
			})
		}
		userID := c.Locals("user_id").(string)

		var req struct {
			Title              string         `json:"title"`
			Description        string         `json:"description"`
			QuestType          string         `json:"quest_type"`
			Difficulty         string         `json:"difficulty"`
			XPReward           int64          `json:"xp_reward"`
			CurrencyReward     int64          `json:"currency_reward"`
			RequiredLevel      int            `json:"required_level"`
			MaxParticipants    *int           `json:"max_participants"`
			CompletionCriteria datatypes.JSON `json:"completion_criteria"`
			StartsAt           *time.Time     `json:"starts_at"`
			ExpiresAt          *time.Time     `json:"expires_at"`
			EstimatedDuration  int            `json:"estimated_duration"`
			IsRepeatable       bool           `json:"is_repeatable"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_BODY",
				"message": "invalid JSON",
			})
		}
		if req.Title == "" || req.QuestType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_BODY",
				"message": "title and quest_type are required",
			})
		}
		if req.CompletionCriteria == nil {
			req.CompletionCriteria = datatypes.JSON([]byte(`{}`))
		}

		quest := &models.Quest{
			Title:              req.Title,
			Description:        req.Description,
			QuestType:          req.QuestType,
			Difficulty:         req.Difficulty,
			XPReward:           req.XPReward,
			CurrencyReward:     req.CurrencyReward,
			RequiredLevel:      req.RequiredLevel,
			MaxParticipants:    req.MaxParticipants,
			CompletionCriteria: req.CompletionCriteria,
			StartsAt:           req.StartsAt,
			ExpiresAt:          req.ExpiresAt,
			EstimatedDuration:  req.EstimatedDuration,
			IsRepeatable:       req.IsRepeatable,
			IsActive:           true,
		}
		created, err := quests.CreateQuest(quest, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Quest created successfully",
			"data":    fiber.Map{"quest": created},
		})
	})
}
