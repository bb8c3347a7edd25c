package repository

import (
	"context"
	"time"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// EventPublisher hands achievement unlocks to the external notification
// pipeline. Publishing is best effort; a failed publish never blocks the
// award itself.
type EventPublisher interface {
	PublishAchievementUnlocked(ctx context.Context, userID uuid.UUID, def *entity.AchievementDefinition, earnedAt time.Time) error
	Close() error
}
