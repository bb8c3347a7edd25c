package redis

import (
	"context"
	"fmt"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PeriodGuard marks leaderboard award periods as processed in Redis. The key
// is claimed with SET NX, so exactly one caller wins each period regardless
// of process count or restarts. The TTL outlives the period; a lost key only
// causes a redundant, idempotent re-evaluation.
type PeriodGuard struct {
	client *redis.Client
}

// NewPeriodGuard creates a Redis-backed period guard
func NewPeriodGuard(client *redis.Client) *PeriodGuard {
	return &PeriodGuard{client: client}
}

var _ repository.PeriodGuard = (*PeriodGuard)(nil)

func (g *PeriodGuard) guardKey(challengeID uuid.UUID, timeframe entity.Timeframe, periodID string) string {
	return fmt.Sprintf("periodaward:%s:%s:%s", challengeID.String(), timeframe, periodID)
}

// TryAcquire claims the period; it returns false when another view already
// processed it.
func (g *PeriodGuard) TryAcquire(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe, periodID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	key := g.guardKey(challengeID, timeframe, periodID)
	acquired, err := g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire period guard: %w", err)
	}

	return acquired, nil
}
