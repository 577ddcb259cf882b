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

type SkillService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Analytics     *AnalyticsService
}

func NewSkillService(db *gorm.DB, notifications *NotificationService, analytics *AnalyticsService) *SkillService {
	return &SkillService{DB: db, Notifications: notifications, Analytics: analytics}
}

// SkillUnlockResult is the outcome of one unlock (or re-investment).
type SkillUnlockResult struct {
	Skill        models.SkillNode `json:"skill"`
	CurrentLevel int              `json:"current_level"`
	RemainingXP  int64            `json:"remaining_xp"`
}

// UnlockSkill spends current_xp on a node. The spend comes out of the same
// balance leveling fills; level and total_xp are never touched and current_xp
// never goes negative because the cost is checked under the row lock. A node
// with a parent requires the parent's record to be unlocked first.
// Unlocking an already-unlocked node re-invests: the cost is paid again and
// current_level increments.
func (s *SkillService) UnlockSkill(userID, skillNodeID string) (*SkillUnlockResult, error) {
	var node models.SkillNode
	if err := s.DB.First(&node, "id = ?", skillNodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}

	var result *SkillUnlockResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if user.CurrentXP < node.XPCost {
			return ErrInsufficientXP
		}

		if node.ParentNodeID != nil {
			var parent models.UserSkill
			err := tx.Where("user_id = ? AND skill_node_id = ?", userID, *node.ParentNodeID).
				First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentRequired
			}
			if err != nil {
				return err
			}
			if !parent.IsUnlocked {
				return ErrParentRequired
			}
		}

		user.CurrentXP -= node.XPCost
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		now := time.Now()
		rec := models.UserSkill{
			ID:           uuid.NewString(),
			UserID:       userID,
			SkillNodeID:  node.ID,
			IsUnlocked:   true,
			CurrentLevel: 1,
			UnlockedAt:   &now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_node_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_unlocked":   true,
				"unlocked_at":   now,
				"current_level": gorm.Expr("user_skills.current_level + 1"),
			}),
		}).Create(&rec).Error; err != nil {
			return err
		}

		var saved models.UserSkill
		if err := tx.Where("user_id = ? AND skill_node_id = ?", userID, node.ID).
			First(&saved).Error; err != nil {
			return err
		}

		result = &SkillUnlockResult{
			Skill:        node,
			CurrentLevel: saved.CurrentLevel,
			RemainingXP:  user.CurrentXP,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("⚡ Skill unlocked: %s → %s (lvl %d), remaining XP %d",
		userID, node.Name, result.CurrentLevel, result.RemainingXP)

	s.Notifications.Notify(userID, "achievement",
		"⚡ SKILL UNLOCKED!",
		fmt.Sprintf("You unlocked: %s", node.Name),
		map[string]interface{}{"skill_node_id": node.ID, "benefits": node.Benefits},
	)
	s.Analytics.TrackEvent(userID, "skill_unlocked", map[string]interface{}{
		"skill_node_id": node.ID,
		"skill_name":    node.Name,
		"xp_cost":       node.XPCost,
	})

	return result, nil
}

// SkillTreeView is a tree with its nodes inlined.
type SkillTreeView struct {
	models.SkillTree
	Nodes []models.SkillNode `json:"nodes"`
}

// GetSkillTrees returns the full catalog grouped by tree.
func (s *SkillService) GetSkillTrees() ([]SkillTreeView, error) {
	var trees []models.SkillTree
	if err := s.DB.Order("category").Find(&trees).Error; err != nil {
		return nil, err
	}

	var nodes []models.SkillNode
	if err := s.DB.Order("tier, position_y").Find(&nodes).Error; err != nil {
		return nil, err
	}
	byTree := make(map[string][]models.SkillNode)
	for _, n := range nodes {
		byTree[n.SkillTreeID] = append(byTree[n.SkillTreeID], n)
	}

	views := make([]SkillTreeView, 0, len(trees))
	for _, t := range trees {
		views = append(views, SkillTreeView{SkillTree: t, Nodes: byTree[t.ID]})
	}
	return views, nil
}

// UserSkillNodeView is one node annotated with the user's unlock state.
type UserSkillNodeView struct {
	NodeID       string     `json:"node_id"`
	NodeName     string     `json:"node_name"`
	Tier         int        `json:"tier"`
	IsUnlocked   bool       `json:"is_unlocked"`
	CurrentLevel int        `json:"current_level"`
	UnlockedAt   *time.Time `json:"unlocked_at,omitempty"`
}

// UserSkillTreeView groups a user's node states by tree.
type UserSkillTreeView struct {
	TreeID   string              `json:"tree_id"`
	TreeName string              `json:"tree_name"`
	Category string              `json:"category"`
	Nodes    []UserSkillNodeView `json:"nodes"`
}

// GetUserSkills returns every tree with the user's per-node unlock state.
func (s *SkillService) GetUserSkills(userID string) ([]UserSkillTreeView, error) {
	trees, err := s.GetSkillTrees()
	if err != nil {
		return nil, err
	}

	var records []models.UserSkill
	if err := s.DB.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	byNode := make(map[string]models.UserSkill, len(records))
	for _, r := range records {
		byNode[r.SkillNodeID] = r
	}

	views := make([]UserSkillTreeView, 0, len(trees))
	for _, t := range trees {
		view := UserSkillTreeView{TreeID: t.ID, TreeName: t.Name, Category: t.Category}
		for _, n := range t.Nodes {
			nodeView := UserSkillNodeView{NodeID: n.ID, NodeName: n.Name, Tier: n.Tier}
			if rec, ok := byNode[n.ID]; ok {
				nodeView.IsUnlocked = rec.IsUnlocked
				nodeView.CurrentLevel = rec.CurrentLevel
				nodeView.UnlockedAt = rec.UnlockedAt
			}
			view.Nodes = append(view.Nodes, nodeView)
		}
		views = append(views, view)
	}
	return views, nil
}
