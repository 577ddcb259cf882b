package services

import (
	"encoding/json"
	"log"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify persists an in-app notification. A failed write is logged and
// swallowed; notifications never gate the operation that triggered them.
func (s *NotificationService) Notify(userID, notificationType, title, message string, data map[string]interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("⚠️ Failed to encode notification data for %s: %v", userID, err)
		return
	}

	n := models.Notification{
		ID:               uuid.NewString(),
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		Data:             datatypes.JSON(payload),
	}
	if err := s.DB.Create(&n).Error; err != nil {
		log.Printf("⚠️ Failed to store notification for user %s: %v", userID, err)
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID string, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}
	var notifications []models.Notification
	err := s.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
