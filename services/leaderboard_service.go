package services

import (
	"context"
	"log"

	"fitquest-platform/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const xpLeaderboardKey = "leaderboard:xp"

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	TotalXP  int64  `json:"total_xp"`
}

// LeaderboardService keeps a Redis sorted set of total XP. Postgres stays the
// source of truth; the set is advisory and rebuilt on schedule.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// RecordXP pushes a user's running XP total into the ranking set. Failures
// are logged only; the scheduled rebuild repairs any gaps.
func (s *LeaderboardService) RecordXP(userID string, totalXP int64) {
	err := s.RDB.ZAdd(context.Background(), xpLeaderboardKey, redis.Z{
		Score:  float64(totalXP),
		Member: userID,
	}).Err()
	if err != nil {
		log.Printf("⚠️ Failed to update XP leaderboard for %s: %v", userID, err)
	}
}

// Top returns the highest-XP users with usernames resolved from Postgres.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}

	zs, err := s.RDB.ZRevRangeWithScores(ctx, xpLeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, 0, len(zs))
	for _, z := range zs {
		if id, ok := z.Member.(string); ok {
			ids = append(ids, id)
		}
	}
	var users []models.User
	if err := s.DB.Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		id, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   id,
			Username: usernames[id],
			TotalXP:  int64(z.Score),
		})
	}
	return entries, nil
}

// Rebuild repopulates the ranking set from the users table.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	var users []models.User
	if err := s.DB.Select("id", "total_xp").Find(&users).Error; err != nil {
		return err
	}

	pipe := s.RDB.Pipeline()
	for _, u := range users {
		pipe.ZAdd(ctx, xpLeaderboardKey, redis.Z{Score: float64(u.TotalXP), Member: u.ID})
	}
	_, err := pipe.Exec(ctx)
	return err
}
