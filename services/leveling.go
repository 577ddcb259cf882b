package services

import (
	"math"

	"fitquest-platform/models"
)

// Leveling curve: the XP needed to clear level n is floor(100 * n^1.5),
// strictly increasing. A fresh level-1 user therefore needs 100 XP.
const BaseXPPerLevel = 100

// XPForNextLevel returns the threshold for clearing the given level.
func XPForNextLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(math.Floor(float64(BaseXPPerLevel) * math.Pow(float64(level), 1.5)))
}

// TitleForLevel maps a level to its cosmetic title.
func TitleForLevel(level int) string {
	switch {
	case level >= 50:
		return "Legion Commander"
	case level >= 40:
		return "War Master"
	case level >= 30:
		return "Elite Warrior"
	case level >= 20:
		return "Veteran"
	case level >= 10:
		return "Soldier"
	case level >= 5:
		return "Fighter"
	default:
		return "Recruit"
	}
}

// ApplyXP credits a non-negative amount to the user's pools and resolves any
// level-ups, recomputing the cached threshold and title as it goes. Reports
// whether at least one level-up occurred. Amount 0 is a legal no-op.
// Negative amounts are the caller's responsibility to reject; the reward
// service is the only entry point and does so.
//
// After ApplyXP returns, 0 <= current_xp < xp_to_next_level holds.
func ApplyXP(u *models.User, amount int64) bool {
	u.CurrentXP += amount
	u.TotalXP += amount

	leveledUp := false
	for u.CurrentXP >= u.XPToNextLevel {
		u.CurrentXP -= u.XPToNextLevel
		u.Level++
		u.XPToNextLevel = XPForNextLevel(u.Level)
		u.Title = TitleForLevel(u.Level)
		leveledUp = true
	}
	return leveledUp
}
