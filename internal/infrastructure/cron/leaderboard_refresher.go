package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"
	"challenges-service/internal/domain/service"

	"github.com/robfig/cron/v3"
)

// LeaderboardRefresher periodically recomputes leaderboards for public
// challenges so the cache stays warm and rank achievements are awarded
// even when nobody views the board near a period boundary.
type LeaderboardRefresher struct {
	leaderboards service.LeaderboardService
	challenges   repository.ChallengeRepository
	cron         *cron.Cron
	interval     time.Duration
}

// NewLeaderboardRefresher creates a new leaderboard refresher
func NewLeaderboardRefresher(leaderboards service.LeaderboardService, challenges repository.ChallengeRepository, checkInterval time.Duration) *LeaderboardRefresher {
	return &LeaderboardRefresher{
		leaderboards: leaderboards,
		challenges:   challenges,
		cron:         cron.New(),
		interval:     checkInterval,
	}
}

// Start starts the leaderboard refresher
func (r *LeaderboardRefresher) Start() error {
	cronExpr := fmt.Sprintf("@every %s", r.interval.String())

	log.Printf("Starting leaderboard refresher with interval: %s", r.interval)

	_, err := r.cron.AddFunc(cronExpr, func() {
		r.refresh()
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.cron.Start()
	log.Println("Leaderboard refresher started successfully")

	return nil
}

// Stop stops the leaderboard refresher
func (r *LeaderboardRefresher) Stop() {
	log.Println("Stopping leaderboard refresher...")
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("Leaderboard refresher stopped")
}

// refresh recomputes every public challenge's leaderboards
func (r *LeaderboardRefresher) refresh() {
	log.Println("Running leaderboard refresh...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	challenges, err := r.challenges.ListPublic(ctx)
	if err != nil {
		log.Printf("Error listing public challenges: %v", err)
		return
	}

	refreshed := 0
	for _, challenge := range challenges {
		for _, timeframe := range entity.Timeframes {
			if _, err := r.leaderboards.Leaderboard(ctx, challenge.ID, timeframe); err != nil {
				log.Printf("Error refreshing leaderboard for challenge %s (%s): %v", challenge.ID, timeframe, err)
				continue
			}
			refreshed++
		}
	}

	log.Printf("Leaderboard refresh completed: %d boards recomputed", refreshed)
}
