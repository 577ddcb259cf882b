package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalyticsEvent is a fire-and-forget tracking record. Writes never block or
// fail the operation that emitted them. The archive worker ships unarchived
// rows to R2 in batches and flips the flag.
type AnalyticsEvent struct {
	ID         string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string         `gorm:"index" json:"user_id"`
	EventType  string         `gorm:"type:varchar(64);index;not null" json:"event_type"`
	Properties datatypes.JSON `json:"properties,omitempty"`
	Archived   bool           `gorm:"default:false;index" json:"archived"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}
