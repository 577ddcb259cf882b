package services

import (
	"testing"
	"time"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAchievement(t *testing.T, db *gorm.DB, a models.Achievement) models.Achievement {
	t.Helper()
	a.ID = uuid.NewString()
	require.NoError(t, db.Create(&a).Error)
	return a
}

func logWorkouts(t *testing.T, db *gorm.DB, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.Workout{
			ID:     uuid.NewString(),
			UserID: userID,
		}).Error)
	}
}

func TestCheckAchievementsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)

	_, err := achievements.CheckAchievements(uuid.NewString())

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckAchievementsUnlocksWhenThresholdMet(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	seedAchievement(t, db, models.Achievement{
		Code: "first-steps", Name: "First Steps", XPReward: 50,
		Requirements: []models.StatRequirement{{Stat: models.StatWorkoutsLogged, Threshold: 1}},
	})

	// Below threshold: nothing unlocks.
	result, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Zero(t, result.UnlockedCount)

	logWorkouts(t, db, user.ID, 1)

	result, err = achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnlockedCount)
	require.Len(t, result.Achievements, 1)
	assert.Equal(t, "first-steps", result.Achievements[0].Code)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(50), after.TotalXP)
}

func TestCheckAchievementsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	seedAchievement(t, db, models.Achievement{
		Code: "first-steps", Name: "First Steps", XPReward: 50,
		Requirements: []models.StatRequirement{{Stat: models.StatWorkoutsLogged, Threshold: 1}},
	})
	logWorkouts(t, db, user.ID, 1)

	first, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.UnlockedCount)

	second, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Zero(t, second.UnlockedCount)

	// XP granted exactly once.
	after := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(50), after.TotalXP)
}

func TestCheckAchievementsBatchesRewards(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	seedAchievement(t, db, models.Achievement{
		Code: "first-steps", Name: "First Steps", XPReward: 50,
		Requirements: []models.StatRequirement{{Stat: models.StatWorkoutsLogged, Threshold: 1}},
	})
	seedAchievement(t, db, models.Achievement{
		Code: "triple-threat", Name: "Triple Threat", XPReward: 150,
		Requirements: []models.StatRequirement{{Stat: models.StatWorkoutsLogged, Threshold: 3}},
	})
	logWorkouts(t, db, user.ID, 3)

	result, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.UnlockedCount)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(200), after.TotalXP)

	// Both unlocks funnel into one grant, so exactly one xp_awarded event.
	var grants int64
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, "xp_awarded").
		Count(&grants).Error)
	assert.Equal(t, int64(1), grants)
}

func TestCheckAchievementsEmptyRequirementsAlwaysMatch(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	seedAchievement(t, db, models.Achievement{
		Code: "welcome", Name: "Welcome Aboard", XPReward: 10,
	})

	result, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnlockedCount)
}

func TestCheckAchievementsMultiRequirementNeedsAll(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)
	user.LoginStreak = 7
	require.NoError(t, db.Save(user).Error)

	seedAchievement(t, db, models.Achievement{
		Code: "all-rounder", Name: "All-Rounder", XPReward: 300,
		Requirements: []models.StatRequirement{
			{Stat: models.StatLoginStreak, Threshold: 7},
			{Stat: models.StatWorkoutsLogged, Threshold: 5},
		},
	})

	// Streak met but workouts missing.
	result, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Zero(t, result.UnlockedCount)

	logWorkouts(t, db, user.ID, 5)

	result, err = achievements.CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnlockedCount)
}

func TestCheckAchievementsNotifies(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	seedAchievement(t, db, models.Achievement{
		Code: "welcome", Name: "Welcome Aboard", XPReward: 10,
	})

	_, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, "🏆 ACHIEVEMENT UNLOCKED!", notifications[0].Title)
}

func TestMarkCompletedSecondWriteReportsNotNew(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)
	a := seedAchievement(t, db, models.Achievement{Code: "welcome", Name: "Welcome Aboard"})

	now := time.Now()
	newly, err := achievements.markCompleted(user.ID, a.ID, now)
	require.NoError(t, err)
	assert.True(t, newly)

	newly, err = achievements.markCompleted(user.ID, a.ID, now)
	require.NoError(t, err)
	assert.False(t, newly)
}

func TestBuildStatSnapshotAggregates(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)
	user.LoginStreak = 3
	user.Level = 12
	require.NoError(t, db.Save(user).Error)

	logWorkouts(t, db, user.ID, 2)
	require.NoError(t, db.Create(&models.ForumPost{
		ID: uuid.NewString(), UserID: user.ID, LikesCount: 4,
	}).Error)
	require.NoError(t, db.Create(&models.ForumPost{
		ID: uuid.NewString(), UserID: user.ID, LikesCount: 6,
	}).Error)
	require.NoError(t, db.Create(&models.Guild{
		ID: uuid.NewString(), Name: "Iron Wolves", CreatedBy: user.ID,
	}).Error)

	snap, err := achievements.BuildStatSnapshot(user)
	require.NoError(t, err)

	assert.Equal(t, int64(2), snap.WorkoutsLogged)
	assert.Equal(t, int64(2), snap.PostsCreated)
	assert.Equal(t, int64(10), snap.LikesReceived)
	assert.Equal(t, int64(1), snap.GuildsCreated)
	assert.Equal(t, int64(3), snap.LoginStreak)
	assert.Equal(t, int64(12), snap.Level)
}

func TestGetAchievement(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	a := seedAchievement(t, db, models.Achievement{Code: "welcome", Name: "Welcome Aboard"})

	found, err := achievements.GetAchievement(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "welcome", found.Code)

	_, err = achievements.GetAchievement(uuid.NewString())
	assert.ErrorIs(t, err, ErrAchievementNotFound)
}

func TestGetAllAchievementsFilters(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)

	seedAchievement(t, db, models.Achievement{Code: "a", Name: "A", Category: "fitness", Rarity: "common"})
	seedAchievement(t, db, models.Achievement{Code: "b", Name: "B", Category: "community", Rarity: "rare"})
	seedAchievement(t, db, models.Achievement{Code: "c", Name: "C", Category: "fitness", Rarity: "epic", IsHidden: true})

	all, err := achievements.GetAllAchievements("", "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fitness, err := achievements.GetAllAchievements("fitness", "", false)
	require.NoError(t, err)
	assert.Len(t, fitness, 2)

	visible, err := achievements.GetAllAchievements("", "", true)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	rare, err := achievements.GetAllAchievements("", "rare", false)
	require.NoError(t, err)
	require.Len(t, rare, 1)
	assert.Equal(t, "b", rare[0].Code)
}

func TestGetUserAchievementsStats(t *testing.T) {
	db := newTestDB(t)
	_, achievements, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	seedAchievement(t, db, models.Achievement{
		Code: "welcome", Name: "Welcome Aboard", XPReward: 10,
	})
	seedAchievement(t, db, models.Achievement{
		Code: "iron-habit", Name: "Iron Habit", XPReward: 500,
		Requirements: []models.StatRequirement{{Stat: models.StatWorkoutsLogged, Threshold: 50}},
	})

	_, err := achievements.CheckAchievements(user.ID)
	require.NoError(t, err)

	views, stats, err := achievements.GetUserAchievements(user.ID)
	require.NoError(t, err)

	assert.Len(t, views, 2)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 50, stats.CompletionPercentage)
}

func TestSeedAchievementsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedAchievements(db))
	require.NoError(t, SeedAchievements(db))

	var count int64
	require.NoError(t, db.Model(&models.Achievement{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultAchievements)), count)
}
