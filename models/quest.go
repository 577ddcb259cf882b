package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserQuest status values. Transitions are one-directional:
// active → completed or active → failed, nothing after that.
const (
	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
	QuestStatusFailed    = "failed"
)

// Quest is a time-bounded, capacity-bounded task authored by coaches/admins.
type Quest struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	QuestType   string `gorm:"type:varchar(16);index" json:"quest_type"` // main, boss_battle, community, weekly, daily, side
	Difficulty  string `gorm:"type:varchar(16)" json:"difficulty"`

	// Rewards. currency_reward is informational only; nothing in this service
	// maintains a balance for it.
	XPReward       int64 `gorm:"default:0" json:"xp_reward"`
	CurrencyReward int64 `gorm:"default:0" json:"currency_reward"`

	RequiredLevel       int  `gorm:"default:1" json:"required_level"`
	MaxParticipants     *int `json:"max_participants,omitempty"` // nil = unlimited
	CurrentParticipants int  `gorm:"default:0" json:"current_participants"`

	CompletionCriteria datatypes.JSON `json:"completion_criteria,omitempty"`

	StartsAt          *time.Time `json:"starts_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	EstimatedDuration int        `gorm:"default:0" json:"estimated_duration"` // minutes

	IsRepeatable bool   `gorm:"default:false" json:"is_repeatable"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	CreatedBy    string `gorm:"index" json:"created_by"`

	Timestamps
}

// UserQuest tracks one participation. Repeatable quests accumulate rows; for
// non-repeatable quests an active or completed row blocks another start.
// Rows are never deleted and rewards_claimed only ever flips false→true.
type UserQuest struct {
	ID                 string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID             string         `gorm:"index:idx_user_quest;not null" json:"user_id"`
	QuestID            string         `gorm:"index:idx_user_quest;not null" json:"quest_id"`
	Status             string         `gorm:"type:varchar(16);default:'active';index" json:"status"`
	Progress           datatypes.JSON `json:"progress,omitempty"`
	ProgressPercentage int            `gorm:"default:0" json:"progress_percentage"`
	StartedAt          time.Time      `json:"started_at"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	ExpiresAt          *time.Time     `json:"expires_at,omitempty"`
	RewardsClaimed     bool           `gorm:"default:false" json:"rewards_claimed"`

	Timestamps
}
