package services

import (
	"errors"
	"log"

	"fitquest-platform/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XPAwardResult is the outcome of one XP grant.
type XPAwardResult struct {
	XPAwarded     int64  `json:"xp_awarded"`
	CurrentXP     int64  `json:"current_xp"`
	TotalXP       int64  `json:"total_xp"`
	Level         int    `json:"level"`
	XPToNextLevel int64  `json:"xp_to_next_level"`
	LeveledUp     bool   `json:"leveled_up"`
	NewTitle      string `json:"new_title"`
}

// RewardService is the single funnel for XP grants. Achievements, quests and
// admin grants all go through AwardXP; one logical reward event is exactly one
// call, so the read-modify-write on the shared user row happens once.
type RewardService struct {
	DB          *gorm.DB
	Analytics   *AnalyticsService
	Leaderboard *LeaderboardService // nil when Redis is not configured
}

func NewRewardService(db *gorm.DB, analytics *AnalyticsService) *RewardService {
	return &RewardService{DB: db, Analytics: analytics}
}

// lockForUpdate adds a row lock on dialects that support it. SQLite, which
// backs the test suite, rejects FOR UPDATE and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AwardXP credits XP to a user inside a transaction that holds the user row
// for the full read-modify-write. Amount 0 is a no-op that reports the current
// state without writing; negative amounts fail with INVALID_XP.
func (s *RewardService) AwardXP(userID string, amount int64, reason string) (*XPAwardResult, error) {
	if amount < 0 {
		return nil, ErrInvalidXP
	}

	var result *XPAwardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		leveledUp := false
		if amount > 0 {
			leveledUp = ApplyXP(&user, amount)
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}

		result = &XPAwardResult{
			XPAwarded:     amount,
			CurrentXP:     user.CurrentXP,
			TotalXP:       user.TotalXP,
			Level:         user.Level,
			XPToNextLevel: user.XPToNextLevel,
			LeveledUp:     leveledUp,
			NewTitle:      user.Title,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if amount == 0 {
		return result, nil
	}

	log.Printf("🎮 XP awarded: %s +%d → lvl=%d cur=%d total=%d (reason: %s)",
		userID, amount, result.Level, result.CurrentXP, result.TotalXP, reason)

	if s.Leaderboard != nil {
		s.Leaderboard.RecordXP(userID, result.TotalXP)
	}

	s.Analytics.TrackEvent(userID, "xp_awarded", map[string]interface{}{
		"xp_amount": amount,
		"reason":    reason,
		"new_level": result.Level,
	})
	if result.LeveledUp {
		s.Analytics.TrackEvent(userID, "level_up", map[string]interface{}{
			"new_level": result.Level,
		})
	}

	return result, nil
}
