// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRebuildScheduler periodically rebuilds the XP leaderboard from
// Postgres so the cache survives Redis restarts and missed updates.
func (s *LeaderboardService) StartRebuildScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if err := s.Rebuild(context.Background()); err != nil {
				log.Printf("[Scheduler] Leaderboard rebuild failed: %v", err)
				return
			}
			log.Println("✅ XP leaderboard rebuilt from database")
		}),
	)
}
