package services

import (
	"testing"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardXPRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	_, err := rewards.AwardXP(user.ID, -5, "bad_caller")

	assert.ErrorIs(t, err, ErrInvalidXP)
	after := reloadUser(t, db, user.ID)
	assert.Zero(t, after.TotalXP)
}

func TestAwardXPUnknownUser(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)

	_, err := rewards.AwardXP(uuid.NewString(), 100, "workout_completed")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAwardXPZeroReportsStateWithoutWriting(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	_, err := rewards.AwardXP(user.ID, 40, "workout_completed")
	require.NoError(t, err)

	result, err := rewards.AwardXP(user.ID, 0, "noop")
	require.NoError(t, err)

	assert.Zero(t, result.XPAwarded)
	assert.Equal(t, int64(40), result.CurrentXP)
	assert.Equal(t, int64(40), result.TotalXP)
	assert.False(t, result.LeveledUp)

	// No analytics event for the no-op.
	var events int64
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ?", user.ID).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestAwardXPLevelsUpAndPersists(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	result, err := rewards.AwardXP(user.ID, 250, "quest_completed")
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level)
	assert.Equal(t, int64(150), result.CurrentXP)
	assert.Equal(t, int64(250), result.TotalXP)
	assert.Equal(t, int64(282), result.XPToNextLevel)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 2, after.Level)
	assert.Equal(t, int64(150), after.CurrentXP)
	assert.Equal(t, int64(250), after.TotalXP)
	assert.Equal(t, "Recruit", after.Title)
}

func TestAwardXPTitleChangesAtLevelFive(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	// 100+282+519+800 = 1701 clears levels 1..4.
	result, err := rewards.AwardXP(user.ID, 1701, "grind")
	require.NoError(t, err)

	assert.Equal(t, 5, result.Level)
	assert.Equal(t, "Fighter", result.NewTitle)
	assert.Zero(t, result.CurrentXP)
}

func TestAwardXPEmitsAnalyticsEvents(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	_, err := rewards.AwardXP(user.ID, 250, "quest_completed")
	require.NoError(t, err)

	var types []string
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ?", user.ID).
		Order("event_type").
		Pluck("event_type", &types).Error)
	assert.Equal(t, []string{"level_up", "xp_awarded"}, types)
}

func TestAwardXPAccumulatesAcrossCalls(t *testing.T) {
	db := newTestDB(t)
	rewards, _, _, _ := newTestServices(db)
	user := createTestUser(t, db)

	for i := 0; i < 5; i++ {
		_, err := rewards.AwardXP(user.ID, 60, "workout_completed")
		require.NoError(t, err)
	}

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(300), after.TotalXP)
	assert.Equal(t, 2, after.Level)
	assert.Equal(t, int64(200), after.CurrentXP)
}
