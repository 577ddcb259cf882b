package models

// Activity tables owned by the fitness-tracking and community subsystems.
// This service only aggregates counts over them when evaluating achievement
// requirements; creation and editing happen elsewhere.

// Workout is a logged training session.
type Workout struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	WorkoutType string `gorm:"size:32" json:"workout_type"`
	DurationMin int    `gorm:"default:0" json:"duration_min"`
	Timestamps
}

// ForumPost is a community post; likes_count feeds the likes_received stat.
type ForumPost struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string `gorm:"index;not null" json:"user_id"`
	Title      string `json:"title"`
	LikesCount int64  `gorm:"default:0" json:"likes_count"`
	Timestamps
}

// Guild is a user-created community group.
type Guild struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	CreatedBy string `gorm:"index;not null" json:"created_by"`
	Timestamps
}
