package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a stored in-app notification. Delivery (push, socket) is
// another service's problem; this table is the source of truth.
type Notification struct {
	ID               string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string         `gorm:"index;not null" json:"user_id"`
	NotificationType string         `gorm:"type:varchar(32);not null" json:"notification_type"` // achievement, quest, system
	Title            string         `gorm:"not null" json:"title"`
	Message          string         `gorm:"type:text" json:"message"`
	Data             datatypes.JSON `json:"data,omitempty"`
	IsRead           bool           `gorm:"default:false;index" json:"is_read"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
