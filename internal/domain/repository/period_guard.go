package repository

import (
	"context"
	"time"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// PeriodGuard deduplicates leaderboard-triggered achievement evaluation
// within one award window. TryAcquire returns true exactly once per
// (challenge, timeframe, period) key for the guard's lifetime; repeated
// leaderboard views inside the same period then skip re-evaluation.
//
// The guard is an optimization, not the correctness boundary: award inserts
// are themselves insert-if-absent, so a lost or expired guard key only costs
// a redundant evaluation.
type PeriodGuard interface {
	TryAcquire(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe, periodID string, ttl time.Duration) (bool, error)
}
