package models

import (
	"time"
)

// StatKind enumerates the aggregated activity statistics achievement
// requirements are evaluated against.
type StatKind string

const (
	StatQuestsCompleted StatKind = "quests_completed"
	StatPostsCreated    StatKind = "posts_created"
	StatWorkoutsLogged  StatKind = "workouts_logged"
	StatGuildsCreated   StatKind = "guilds_created"
	StatLikesReceived   StatKind = "likes_received"
	StatLoginStreak     StatKind = "login_streak"
	StatLevel           StatKind = "level"
)

// StatRequirement is one (stat, minimum) pair. An achievement unlocks when
// every requirement on it holds.
type StatRequirement struct {
	Stat      StatKind `json:"stat"`
	Threshold int64    `json:"threshold"`
}

// StatSnapshot holds a user's aggregated activity counters at evaluation time.
type StatSnapshot struct {
	QuestsCompleted int64 `json:"quests_completed"`
	PostsCreated    int64 `json:"posts_created"`
	WorkoutsLogged  int64 `json:"workouts_logged"`
	GuildsCreated   int64 `json:"guilds_created"`
	LikesReceived   int64 `json:"likes_received"`
	LoginStreak     int64 `json:"login_streak"`
	Level           int64 `json:"level"`
}

// Value returns the snapshot counter for a stat. Unknown stats read as 0.
func (s StatSnapshot) Value(k StatKind) int64 {
	switch k {
	case StatQuestsCompleted:
		return s.QuestsCompleted
	case StatPostsCreated:
		return s.PostsCreated
	case StatWorkoutsLogged:
		return s.WorkoutsLogged
	case StatGuildsCreated:
		return s.GuildsCreated
	case StatLikesReceived:
		return s.LikesReceived
	case StatLoginStreak:
		return s.LoginStreak
	case StatLevel:
		return s.Level
	}
	return 0
}

// Achievement: immutable catalog entry (seeded at boot or managed out of band)
type Achievement struct {
	ID           string            `gorm:"primaryKey;type:uuid" json:"id"`
	Code         string            `gorm:"uniqueIndex;not null" json:"code"` // e.g. "first-workout"
	Name         string            `gorm:"not null" json:"name"`
	Description  string            `gorm:"type:text" json:"description"`
	Category     string            `gorm:"size:32;index" json:"category"`
	Rarity       string            `gorm:"type:varchar(16);default:'common'" json:"rarity"` // common, rare, epic, legendary
	IconURL      string            `gorm:"type:text" json:"icon_url"`
	XPReward     int64             `gorm:"default:0" json:"xp_reward"`
	IsHidden     bool              `gorm:"default:false" json:"is_hidden"`
	Requirements []StatRequirement `gorm:"serializer:json" json:"requirements"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: per-user unlock record, keyed on (user_id, achievement_id).
// is_completed only ever flips false→true; rows are never deleted.
type UserAchievement struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	Progress      int        `gorm:"default:0" json:"progress"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// DefaultAchievements is the built-in catalog, upserted at boot so a fresh
// deployment has something to unlock.
var DefaultAchievements = []Achievement{
	{
		Code:        "first-steps",
		Name:        "First Steps",
		Description: "Log your first workout",
		Category:    "fitness",
		Rarity:      "common",
		XPReward:    50,
		Requirements: []StatRequirement{
			{Stat: StatWorkoutsLogged, Threshold: 1},
		},
	},
	{
		Code:        "iron-habit",
		Name:        "Iron Habit",
		Description: "Log 50 workouts",
		Category:    "fitness",
		Rarity:      "rare",
		XPReward:    500,
		Requirements: []StatRequirement{
			{Stat: StatWorkoutsLogged, Threshold: 50},
		},
	},
	{
		Code:        "quest-novice",
		Name:        "Quest Novice",
		Description: "Complete your first quest",
		Category:    "quests",
		Rarity:      "common",
		XPReward:    100,
		Requirements: []StatRequirement{
			{Stat: StatQuestsCompleted, Threshold: 1},
		},
	},
	{
		Code:        "quest-conqueror",
		Name:        "Quest Conqueror",
		Description: "Complete 25 quests",
		Category:    "quests",
		Rarity:      "epic",
		XPReward:    1000,
		Requirements: []StatRequirement{
			{Stat: StatQuestsCompleted, Threshold: 25},
		},
	},
	{
		Code:        "community-voice",
		Name:        "Community Voice",
		Description: "Create 10 forum posts",
		Category:    "community",
		Rarity:      "common",
		XPReward:    150,
		Requirements: []StatRequirement{
			{Stat: StatPostsCreated, Threshold: 10},
		},
	},
	{
		Code:        "crowd-favorite",
		Name:        "Crowd Favorite",
		Description: "Receive 100 likes on your posts",
		Category:    "community",
		Rarity:      "rare",
		XPReward:    400,
		Requirements: []StatRequirement{
			{Stat: StatLikesReceived, Threshold: 100},
		},
	},
	{
		Code:        "guild-founder",
		Name:        "Guild Founder",
		Description: "Create a guild",
		Category:    "community",
		Rarity:      "rare",
		XPReward:    300,
		Requirements: []StatRequirement{
			{Stat: StatGuildsCreated, Threshold: 1},
		},
	},
	{
		Code:        "week-warrior",
		Name:        "Week Warrior",
		Description: "Log in 7 days in a row",
		Category:    "dedication",
		Rarity:      "common",
		XPReward:    200,
		Requirements: []StatRequirement{
			{Stat: StatLoginStreak, Threshold: 7},
		},
	},
	{
		Code:        "veteran-grinder",
		Name:        "Veteran Grinder",
		Description: "Reach level 20",
		Category:    "dedication",
		Rarity:      "epic",
		XPReward:    2000,
		IsHidden:    true,
		Requirements: []StatRequirement{
			{Stat: StatLevel, Threshold: 20},
		},
	},
}
