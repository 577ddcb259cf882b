package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementService struct {
	DB            *gorm.DB
	Rewards       *RewardService
	Notifications *NotificationService
	Analytics     *AnalyticsService
}

func NewAchievementService(db *gorm.DB, rewards *RewardService, notifications *NotificationService, analytics *AnalyticsService) *AchievementService {
	return &AchievementService{DB: db, Rewards: rewards, Notifications: notifications, Analytics: analytics}
}

// SeedAchievements upserts the built-in catalog, keyed on code. Existing rows
// are left alone so operators can tweak them in place.
func SeedAchievements(db *gorm.DB) error {
	for i := range models.DefaultAchievements {
		a := models.DefaultAchievements[i]
		a.ID = uuid.NewString()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&a).Error; err != nil {
			return err
		}
	}
	return nil
}

// AchievementCheckResult reports what one evaluation pass unlocked.
type AchievementCheckResult struct {
	UnlockedCount int                  `json:"unlocked_count"`
	Achievements  []models.Achievement `json:"achievements"`
}

// BuildStatSnapshot aggregates the activity counters achievements are judged
// against. Counters that cannot be computed read as zero.
func (s *AchievementService) BuildStatSnapshot(user *models.User) (models.StatSnapshot, error) {
	snap := models.StatSnapshot{
		LoginStreak: user.LoginStreak,
		Level:       int64(user.Level),
	}

	if err := s.DB.Model(&models.UserQuest{}).
		Where("user_id = ? AND status = ?", user.ID, models.QuestStatusCompleted).
		Count(&snap.QuestsCompleted).Error; err != nil {
		return snap, err
	}
	if err := s.DB.Model(&models.ForumPost{}).
		Where("user_id = ?", user.ID).
		Count(&snap.PostsCreated).Error; err != nil {
		return snap, err
	}
	if err := s.DB.Model(&models.Workout{}).
		Where("user_id = ?", user.ID).
		Count(&snap.WorkoutsLogged).Error; err != nil {
		return snap, err
	}
	if err := s.DB.Model(&models.Guild{}).
		Where("created_by = ?", user.ID).
		Count(&snap.GuildsCreated).Error; err != nil {
		return snap, err
	}
	// SUM is NULL for users with no posts; coalesce keeps the stat at 0
	if err := s.DB.Model(&models.ForumPost{}).
		Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(likes_count), 0)").
		Scan(&snap.LikesReceived).Error; err != nil {
		return snap, err
	}

	return snap, nil
}

// CheckAchievements evaluates every achievement the user has not completed yet
// and unlocks the qualifying ones. The combined XP reward of the batch is
// granted through a single AwardXP call; per-achievement grants would pile
// read-modify-write races onto the shared progression row.
func (s *AchievementService) CheckAchievements(userID string) (*AchievementCheckResult, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	snap, err := s.BuildStatSnapshot(&user)
	if err != nil {
		return nil, err
	}

	completed := s.DB.Model(&models.UserAchievement{}).
		Select("achievement_id").
		Where("user_id = ? AND is_completed = ?", userID, true)

	var candidates []models.Achievement
	if err := s.DB.Where("id NOT IN (?)", completed).Find(&candidates).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	unlocked := []models.Achievement{}
	var totalXP int64

	for _, a := range candidates {
		if !meetsRequirements(snap, a.Requirements) {
			continue
		}

		newly, err := s.markCompleted(userID, a.ID, now)
		if err != nil {
			// A failed unlock must not stop evaluation of the rest; the next
			// check retries it via the idempotent upsert.
			log.Printf("❌ Failed to unlock achievement %s for user %s: %v", a.Code, userID, err)
			continue
		}
		if !newly {
			// A concurrent evaluation completed it first; it already rewarded.
			continue
		}

		unlocked = append(unlocked, a)
		totalXP += a.XPReward

		s.Notifications.Notify(userID, "achievement",
			"🏆 ACHIEVEMENT UNLOCKED!",
			fmt.Sprintf("You unlocked: %s", a.Name),
			map[string]interface{}{"achievement_id": a.ID, "xp_reward": a.XPReward},
		)
		s.Analytics.TrackEvent(userID, "achievement_unlocked", map[string]interface{}{
			"achievement_id":   a.ID,
			"achievement_name": a.Name,
			"xp_reward":        a.XPReward,
		})
	}

	if len(unlocked) > 0 {
		if _, err := s.Rewards.AwardXP(userID, totalXP, "achievements_unlocked"); err != nil {
			return nil, err
		}
		log.Printf("🏆 %d achievement(s) unlocked for %s (+%d XP)", len(unlocked), userID, totalXP)
	}

	return &AchievementCheckResult{UnlockedCount: len(unlocked), Achievements: unlocked}, nil
}

// meetsRequirements: every (stat, threshold) pair must hold. An empty
// requirement list matches unconditionally.
func meetsRequirements(snap models.StatSnapshot, reqs []models.StatRequirement) bool {
	for _, r := range reqs {
		if snap.Value(r.Stat) < r.Threshold {
			return false
		}
	}
	return true
}

// markCompleted upserts the (user, achievement) record. The conflict guard
// only flips is_completed while it is still false, so a duplicate concurrent
// unlock reports newly=false and is never rewarded twice.
func (s *AchievementService) markCompleted(userID, achievementID string, now time.Time) (bool, error) {
	rec := models.UserAchievement{
		ID:            uuid.NewString(),
		UserID:        userID,
		AchievementID: achievementID,
		IsCompleted:   true,
		Progress:      100,
		UnlockedAt:    &now,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed": true,
			"progress":     100,
			"unlocked_at":  now,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("user_achievements.is_completed = ?", false),
		}},
	}).Create(&rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetAchievement returns a single catalog entry.
func (s *AchievementService) GetAchievement(id string) (*models.Achievement, error) {
	var a models.Achievement
	if err := s.DB.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetAllAchievements lists the catalog with optional filters.
func (s *AchievementService) GetAllAchievements(category, rarity string, hideHidden bool) ([]models.Achievement, error) {
	q := s.DB.Model(&models.Achievement{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if rarity != "" {
		q = q.Where("rarity = ?", rarity)
	}
	if hideHidden {
		q = q.Where("is_hidden = ?", false)
	}

	var achievements []models.Achievement
	err := q.Order("rarity DESC, xp_reward DESC").Find(&achievements).Error
	return achievements, err
}

// UserAchievementView joins a catalog entry with the user's unlock state.
type UserAchievementView struct {
	models.Achievement
	IsCompleted bool       `json:"is_completed"`
	Progress    int        `json:"progress"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// UserAchievementStats summarizes completion for the profile page.
type UserAchievementStats struct {
	Completed            int `json:"completed"`
	Total                int `json:"total"`
	CompletionPercentage int `json:"completion_percentage"`
}

// GetUserAchievements returns the full catalog annotated with the user's
// unlock records plus a completion summary.
func (s *AchievementService) GetUserAchievements(userID string) ([]UserAchievementView, UserAchievementStats, error) {
	var achievements []models.Achievement
	if err := s.DB.Order("rarity DESC, xp_reward DESC").Find(&achievements).Error; err != nil {
		return nil, UserAchievementStats{}, err
	}

	var records []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, UserAchievementStats{}, err
	}
	byAchievement := make(map[string]models.UserAchievement, len(records))
	for _, r := range records {
		byAchievement[r.AchievementID] = r
	}

	views := make([]UserAchievementView, 0, len(achievements))
	completedCount := 0
	for _, a := range achievements {
		view := UserAchievementView{Achievement: a}
		if rec, ok := byAchievement[a.ID]; ok {
			view.IsCompleted = rec.IsCompleted
			view.Progress = rec.Progress
			view.UnlockedAt = rec.UnlockedAt
		}
		if view.IsCompleted {
			completedCount++
		}
		views = append(views, view)
	}

	stats := UserAchievementStats{
		Completed: completedCount,
		Total:     len(achievements),
	}
	if stats.Total > 0 {
		stats.CompletionPercentage = int(float64(completedCount)/float64(stats.Total)*100 + 0.5)
	}

	return views, stats, nil
}
