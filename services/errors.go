package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is a domain error with a stable machine-readable code and the HTTP
// status handlers map it to. Everything else surfaces as a 500.
type AppError struct {
	Code    string
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsAppError unwraps err into an *AppError if there is one in the chain.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Status: fiber.StatusNotFound, Message: "User not found"}

	// XP & leveling
	ErrInvalidXP = &AppError{Code: "INVALID_XP", Status: fiber.StatusBadRequest, Message: "Invalid XP amount"}

	// Achievements
	ErrAchievementNotFound = &AppError{Code: "ACHIEVEMENT_NOT_FOUND", Status: fiber.StatusNotFound, Message: "Achievement not found"}

	// Skills
	ErrSkillNotFound  = &AppError{Code: "SKILL_NOT_FOUND", Status: fiber.StatusNotFound, Message: "Skill node not found"}
	ErrInsufficientXP = &AppError{Code: "INSUFFICIENT_XP", Status: fiber.StatusBadRequest, Message: "Insufficient XP"}
	ErrParentRequired = &AppError{Code: "PARENT_REQUIRED", Status: fiber.StatusBadRequest, Message: "Parent skill must be unlocked first"}

	// Quests
	ErrQuestNotFound       = &AppError{Code: "QUEST_NOT_FOUND", Status: fiber.StatusNotFound, Message: "Quest not found or inactive"}
	ErrQuestAlreadyStarted = &AppError{Code: "QUEST_ALREADY_STARTED", Status: fiber.StatusBadRequest, Message: "Quest already started or completed"}
	ErrQuestFull           = &AppError{Code: "QUEST_FULL", Status: fiber.StatusBadRequest, Message: "Quest is full"}
	ErrQuestNotActive      = &AppError{Code: "QUEST_NOT_ACTIVE", Status: fiber.StatusBadRequest, Message: "Quest is not active"}
	ErrRewardsClaimed      = &AppError{Code: "REWARDS_CLAIMED", Status: fiber.StatusBadRequest, Message: "Rewards already claimed"}
)

// ErrLevelTooLow carries the required level in its message.
func ErrLevelTooLow(required int) *AppError {
	return &AppError{
		Code:    "LEVEL_TOO_LOW",
		Status:  fiber.StatusBadRequest,
		Message: fmt.Sprintf("Requires level %d", required),
	}
}
