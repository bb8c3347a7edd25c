package service

import (
	"context"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// LeaderboardService defines the interface for leaderboard scoring
type LeaderboardService interface {
	// Leaderboard ranks the active members of a challenge for one
	// timeframe. Viewing a leaderboard is also what lazily triggers
	// rank-based achievement awards for the current period.
	Leaderboard(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe) ([]*entity.LeaderboardEntry, error)
}
