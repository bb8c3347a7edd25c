package repository

import (
	"context"
	"time"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// LeaderboardCache holds short-lived ranking snapshots so repeated views
// inside the TTL skip recomputation. A cache miss or error degrades to a
// fresh computation.
type LeaderboardCache interface {
	Get(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe) ([]*entity.LeaderboardEntry, error)
	Set(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe, entries []*entity.LeaderboardEntry, ttl time.Duration) error
}
