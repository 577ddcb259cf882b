package models

import (
	"time"

	"gorm.io/datatypes"
)

// SkillTree groups skill nodes by coaching category (e.g. strength, endurance)
type SkillTree struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:32;index" json:"category"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SkillNode is one unlockable node. ParentNodeID forms a forest of
// prerequisite chains: a node with a parent cannot be unlocked before it.
type SkillNode struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	SkillTreeID  string         `gorm:"index;not null" json:"skill_tree_id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Tier         int            `gorm:"default:1" json:"tier"`
	PositionX    int            `json:"position_x"`
	PositionY    int            `json:"position_y"`
	ParentNodeID *string        `gorm:"index" json:"parent_node_id,omitempty"`
	XPCost       int64          `gorm:"not null" json:"xp_cost"`
	Requirements datatypes.JSON `json:"requirements,omitempty"`
	Benefits     datatypes.JSON `json:"benefits,omitempty"`
	IconURL      string         `gorm:"type:text" json:"icon_url"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// UserSkill: per-user unlock record, keyed on (user_id, skill_node_id).
// current_level increments when the user re-invests in an unlocked node.
type UserSkill struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string     `gorm:"uniqueIndex:idx_user_skill;not null" json:"user_id"`
	SkillNodeID  string     `gorm:"uniqueIndex:idx_user_skill;not null" json:"skill_node_id"`
	IsUnlocked   bool       `gorm:"default:false" json:"is_unlocked"`
	CurrentLevel int        `gorm:"default:0" json:"current_level"`
	UnlockedAt   *time.Time `json:"unlocked_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
