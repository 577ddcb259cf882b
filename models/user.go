package models

import (
	"time"

	"gorm.io/gorm"
)

// User carries identity plus the gamified progression state. The progression
// fields (level, XP, title) are mutated only through the reward service (XP
// gains) and the skill service (XP spends).
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Role     string `gorm:"type:varchar(16);default:'member'" json:"role"`   // member, coach, admin, founder
	Status   string `gorm:"type:varchar(16);default:'active'" json:"status"` // active, inactive, suspended, deleted

	// Progression. current_xp is both the leveling progress bar and the
	// spendable skill-purchase balance; there is no separate wallet pool.
	Level         int    `json:"level" gorm:"default:1"`
	TotalXP       int64  `json:"total_xp" gorm:"default:0"`
	CurrentXP     int64  `json:"current_xp" gorm:"default:0"`
	XPToNextLevel int64  `json:"xp_to_next_level" gorm:"default:100"`
	Title         string `gorm:"size:100;default:'Recruit'" json:"title"`

	// Login tracking (feeds achievement requirements)
	LastLogin     *time.Time `json:"last_login,omitempty"`
	LoginStreak   int64      `json:"login_streak" gorm:"default:0"`
	LongestStreak int64      `json:"longest_streak" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
