package services

import (
	"encoding/json"
	"log"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// TrackEvent records a fire-and-forget analytics event. Failures are logged
// and never surfaced; analytics must not break the operation that emitted it.
func (s *AnalyticsService) TrackEvent(userID, eventType string, properties map[string]interface{}) {
	props, err := json.Marshal(properties)
	if err != nil {
		log.Printf("⚠️ Failed to encode analytics properties for %s: %v", eventType, err)
		return
	}

	event := models.AnalyticsEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		EventType:  eventType,
		Properties: datatypes.JSON(props),
	}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ Failed to track event %s for user %s: %v", eventType, userID, err)
	}
}

// XPHistory returns the user's recent XP-related events, newest first.
func (s *AnalyticsService) XPHistory(userID string, limit int) ([]models.AnalyticsEvent, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var events []models.AnalyticsEvent
	err := s.DB.
		Where("user_id = ? AND event_type IN ?", userID, []string{"xp_awarded", "level_up"}).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
