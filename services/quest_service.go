package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"fitquest-platform/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestService struct {
	DB            *gorm.DB
	Rewards       *RewardService
	Notifications *NotificationService
	Analytics     *AnalyticsService
}

func NewQuestService(db *gorm.DB, rewards *RewardService, notifications *NotificationService, analytics *AnalyticsService) *QuestService {
	return &QuestService{DB: db, Rewards: rewards, Notifications: notifications, Analytics: analytics}
}

// questTypeOrder drives listing order: story content first, dailies later.
var questTypeOrder = map[string]int{
	"main":        1,
	"boss_battle": 2,
	"community":   3,
	"weekly":      4,
	"daily":       5,
	"side":        6,
}

// QuestFilters narrows the quest listing.
type QuestFilters struct {
	QuestType  string
	Difficulty string
	IsActive   bool
}

// QuestView is a quest annotated with the requesting user's participation.
type QuestView struct {
	models.Quest
	UserStatus          string         `json:"user_status,omitempty"`
	UserProgress        datatypes.JSON `json:"user_progress,omitempty"`
	UserPercentage      int            `json:"user_percentage"`
	UserStartedAt       *time.Time     `json:"user_started_at,omitempty"`
	LevelRequirementMet bool           `json:"level_requirement_met"`
	TotalCompletions    int64          `json:"total_completions"`
}

// GetAvailableQuests lists quests inside their availability window, annotated
// with the user's own participation state. Expiry is evaluated here, at read
// time, by comparing against expires_at; no timer ever fires.
func (s *QuestService) GetAvailableQuests(userID string, f QuestFilters) ([]QuestView, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	q := s.DB.
		Where("is_active = ?", f.IsActive).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("expires_at IS NULL OR expires_at > ?", now)
	if f.QuestType != "" {
		q = q.Where("quest_type = ?", f.QuestType)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}

	var quests []models.Quest
	if err := q.Find(&quests).Error; err != nil {
		return nil, err
	}

	// Latest participation per quest; ascending start order means the newest
	// record wins the map slot.
	var records []models.UserQuest
	if err := s.DB.Where("user_id = ?", userID).Order("started_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	byQuest := make(map[string]models.UserQuest, len(records))
	for _, r := range records {
		byQuest[r.QuestID] = r
	}

	type completionRow struct {
		QuestID string
		N       int64
	}
	var completions []completionRow
	if err := s.DB.Model(&models.UserQuest{}).
		Select("quest_id, COUNT(*) AS n").
		Where("status = ?", models.QuestStatusCompleted).
		Group("quest_id").
		Scan(&completions).Error; err != nil {
		return nil, err
	}
	completionsByQuest := make(map[string]int64, len(completions))
	for _, c := range completions {
		completionsByQuest[c.QuestID] = c.N
	}

	views := make([]QuestView, 0, len(quests))
	for _, quest := range quests {
		view := QuestView{
			Quest:               quest,
			LevelRequirementMet: user.Level >= quest.RequiredLevel,
			TotalCompletions:    completionsByQuest[quest.ID],
		}
		if rec, ok := byQuest[quest.ID]; ok {
			view.UserStatus = rec.Status
			view.UserProgress = rec.Progress
			view.UserPercentage = rec.ProgressPercentage
			started := rec.StartedAt
			view.UserStartedAt = &started
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		oi, oj := questTypeOrder[views[i].QuestType], questTypeOrder[views[j].QuestType]
		if oi == 0 {
			oi = 7
		}
		if oj == 0 {
			oj = 7
		}
		if oi != oj {
			return oi < oj
		}
		return views[i].XPReward > views[j].XPReward
	})

	return views, nil
}

// GetMyQuests lists the user's participations with the given status.
func (s *QuestService) GetMyQuests(userID, status string) ([]QuestView, error) {
	if status == "" {
		status = models.QuestStatusActive
	}

	var records []models.UserQuest
	if err := s.DB.Where("user_id = ? AND status = ?", userID, status).
		Order("started_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []QuestView{}, nil
	}

	questIDs := make([]string, 0, len(records))
	for _, r := range records {
		questIDs = append(questIDs, r.QuestID)
	}
	var quests []models.Quest
	if err := s.DB.Where("id IN ?", questIDs).Find(&quests).Error; err != nil {
		return nil, err
	}
	questsByID := make(map[string]models.Quest, len(quests))
	for _, q := range quests {
		questsByID[q.ID] = q
	}

	views := make([]QuestView, 0, len(records))
	for _, rec := range records {
		quest, ok := questsByID[rec.QuestID]
		if !ok {
			continue
		}
		started := rec.StartedAt
		views = append(views, QuestView{
			Quest:          quest,
			UserStatus:     rec.Status,
			UserProgress:   rec.Progress,
			UserPercentage: rec.ProgressPercentage,
			UserStartedAt:  &started,
		})
	}
	return views, nil
}

// StartQuest joins a user to a quest. Capacity is enforced by a conditional
// increment whose WHERE clause rechecks max_participants in the same
// statement, so concurrent starts cannot overshoot the cap.
func (s *QuestService) StartQuest(userID, questID string) (*models.Quest, error) {
	var quest models.Quest
	if err := s.DB.First(&quest, "id = ? AND is_active = ?", questID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}

	now := time.Now()
	if quest.StartsAt != nil && quest.StartsAt.After(now) {
		return nil, ErrQuestNotFound
	}
	if quest.ExpiresAt != nil && !quest.ExpiresAt.After(now) {
		return nil, ErrQuestNotFound
	}

	if !quest.IsRepeatable {
		var existing int64
		if err := s.DB.Model(&models.UserQuest{}).
			Where("user_id = ? AND quest_id = ? AND status IN ?",
				userID, questID, []string{models.QuestStatusActive, models.QuestStatusCompleted}).
			Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			return nil, ErrQuestAlreadyStarted
		}
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Level < quest.RequiredLevel {
		return nil, ErrLevelTooLow(quest.RequiredLevel)
	}

	expiresAt := quest.ExpiresAt
	if expiresAt == nil && quest.EstimatedDuration > 0 {
		t := now.Add(time.Duration(quest.EstimatedDuration) * time.Minute)
		expiresAt = &t
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		counter := tx.Model(&models.Quest{}).Where("id = ?", questID)
		if quest.MaxParticipants != nil {
			counter = counter.Where("current_participants < max_participants")
		}
		res := counter.UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuestFull
		}

		rec := models.UserQuest{
			ID:        uuid.NewString(),
			UserID:    userID,
			QuestID:   questID,
			Status:    models.QuestStatusActive,
			Progress:  datatypes.JSON([]byte(`{}`)),
			StartedAt: now,
			ExpiresAt: expiresAt,
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🗺️ Quest started: %s → %s", userID, quest.Title)
	s.Analytics.TrackEvent(userID, "quest_started", map[string]interface{}{
		"quest_id":   quest.ID,
		"quest_name": quest.Title,
		"quest_type": quest.QuestType,
	})

	return &quest, nil
}

// UpdateProgress overwrites the stored progress blob and percentage of the
// user's active participation. Values are stored as sent; clients own the
// shape of the blob and no monotonicity is enforced.
func (s *QuestService) UpdateProgress(userID, questID string, progress datatypes.JSON, percentage int) error {
	var rec models.UserQuest
	err := s.DB.Where("user_id = ? AND quest_id = ? AND status = ?",
		userID, questID, models.QuestStatusActive).
		Order("started_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuestNotActive
	}
	if err != nil {
		return err
	}

	return s.DB.Model(&models.UserQuest{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"progress":            progress,
			"progress_percentage": percentage,
		}).Error
}

// QuestCompletionResult reports the rewards of a completion. The currency
// amount is echoed back only; no balance exists for it here.
type QuestCompletionResult struct {
	Quest          models.Quest `json:"quest"`
	XPReward       int64        `json:"xp_reward"`
	CurrencyReward int64        `json:"currency_reward"`
	NewXP          int64        `json:"new_xp"`
	NewLevel       int          `json:"new_level"`
	LeveledUp      bool         `json:"leveled_up"`
}

// CompleteQuest finishes the user's active participation and grants the XP
// reward through the reward funnel. The guarded update flips rewards_claimed
// together with the status so a retried or concurrent completion cannot grant
// twice.
func (s *QuestService) CompleteQuest(userID, questID string) (*QuestCompletionResult, error) {
	var quest models.Quest
	if err := s.DB.First(&quest, "id = ?", questID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}

	var rec models.UserQuest
	err := s.DB.Where("user_id = ? AND quest_id = ?", userID, questID).
		Order("started_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestNotFound
	}
	if err != nil {
		return nil, err
	}

	if rec.RewardsClaimed {
		return nil, ErrRewardsClaimed
	}
	if rec.Status != models.QuestStatusActive {
		return nil, ErrQuestNotActive
	}

	now := time.Now()
	res := s.DB.Model(&models.UserQuest{}).
		Where("id = ? AND status = ? AND rewards_claimed = ?", rec.ID, models.QuestStatusActive, false).
		Updates(map[string]interface{}{
			"status":              models.QuestStatusCompleted,
			"completed_at":        now,
			"progress_percentage": 100,
			"rewards_claimed":     true,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race with another completion of the same record.
		return nil, ErrQuestNotActive
	}

	award, err := s.Rewards.AwardXP(userID, quest.XPReward, fmt.Sprintf("quest_%s_completed", quest.Slug))
	if err != nil {
		return nil, err
	}

	s.Notifications.Notify(userID, "achievement",
		"✅ QUEST COMPLETED!",
		fmt.Sprintf("You completed: %s", quest.Title),
		map[string]interface{}{
			"quest_id":        quest.ID,
			"xp_reward":       quest.XPReward,
			"currency_reward": quest.CurrencyReward,
		},
	)
	s.Analytics.TrackEvent(userID, "quest_completed", map[string]interface{}{
		"quest_id":   quest.ID,
		"quest_name": quest.Title,
		"quest_type": quest.QuestType,
		"xp_reward":  quest.XPReward,
	})

	return &QuestCompletionResult{
		Quest:          quest,
		XPReward:       quest.XPReward,
		CurrencyReward: quest.CurrencyReward,
		NewXP:          award.CurrentXP,
		NewLevel:       award.Level,
		LeveledUp:      award.LeveledUp,
	}, nil
}

// AbandonQuest fails the user's active participation. When nothing is active
// this is a silent no-op; clients delete optimistically.
func (s *QuestService) AbandonQuest(userID, questID string) error {
	res := s.DB.Model(&models.UserQuest{}).
		Where("user_id = ? AND quest_id = ? AND status = ?",
			userID, questID, models.QuestStatusActive).
		Update("status", models.QuestStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.Analytics.TrackEvent(userID, "quest_abandoned", map[string]interface{}{
			"quest_id": questID,
		})
	}
	return nil
}

// CreateQuest inserts a coach/admin-authored quest. The slug is derived from
// the title and de-duplicated with a short random suffix when taken.
func (s *QuestService) CreateQuest(quest *models.Quest, createdBy string) (*models.Quest, error) {
	quest.ID = uuid.NewString()
	quest.CreatedBy = createdBy
	quest.CurrentParticipants = 0

	base := slug.Make(quest.Title)
	quest.Slug = base
	var taken int64
	if err := s.DB.Model(&models.Quest{}).Where("slug = ?", base).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		quest.Slug = fmt.Sprintf("%s-%s", base, quest.ID[:8])
	}

	if err := s.DB.Create(quest).Error; err != nil {
		return nil, err
	}
	log.Printf("📜 Quest created: %s (%s) by %s", quest.Title, quest.Slug, createdBy)
	return quest, nil
}
