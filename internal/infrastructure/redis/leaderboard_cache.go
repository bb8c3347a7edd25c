package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LeaderboardCache stores ranking snapshots in Redis with a short TTL.
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a Redis-backed leaderboard cache
func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

var _ repository.LeaderboardCache = (*LeaderboardCache)(nil)

func (c *LeaderboardCache) cacheKey(challengeID uuid.UUID, timeframe entity.Timeframe) string {
	return fmt.Sprintf("leaderboard:%s:%s", challengeID.String(), timeframe)
}

// Get returns the cached entries, or nil on a miss.
func (c *LeaderboardCache) Get(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe) ([]*entity.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, c.cacheKey(challengeID, timeframe)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var entries []*entity.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached leaderboard: %w", err)
	}

	return entries, nil
}

// Set stores the entries for the given TTL.
func (c *LeaderboardCache) Set(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe, entries []*entity.LeaderboardEntry, ttl time.Duration) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.client.Set(ctx, c.cacheKey(challengeID, timeframe), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}

	return nil
}
