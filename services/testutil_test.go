package services

import (
	"testing"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database. The pool is pinned to a single
// connection because every :memory: connection gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.SkillTree{},
		&models.SkillNode{},
		&models.UserSkill{},
		&models.Quest{},
		&models.UserQuest{},
		&models.Notification{},
		&models.AnalyticsEvent{},
		&models.Workout{},
		&models.ForumPost{},
		&models.Guild{},
	))

	return db
}

// createTestUser inserts a fresh level-1 user and returns it.
func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	id := uuid.NewString()
	user := &models.User{
		ID:            id,
		Email:         id + "@test.local",
		Username:      "user-" + id[:8],
		Level:         1,
		XPToNextLevel: XPForNextLevel(1),
		Title:         "Recruit",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

// newTestServices wires the full service graph onto one database. The
// leaderboard stays nil; Redis is not part of the unit suite.
func newTestServices(db *gorm.DB) (*RewardService, *AchievementService, *SkillService, *QuestService) {
	analytics := NewAnalyticsService(db)
	notifications := NewNotificationService(db)
	rewards := NewRewardService(db, analytics)
	achievements := NewAchievementService(db, rewards, notifications, analytics)
	skills := NewSkillService(db, notifications, analytics)
	quests := NewQuestService(db, rewards, notifications, analytics)
	return rewards, achievements, skills, quests
}
