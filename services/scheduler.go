// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRefreshScheduler rebuilds the leaderboards on a fixed cadence, as a
// backstop for standings drift when no match result arrives for a while.
func (s *LeaderboardService) StartRefreshScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := s.RefreshLeaderboards(context.Background()); err != nil {
				log.Printf("[Scheduler] Leaderboard refresh failed: %v", err)
			}
		}),
	)
}
