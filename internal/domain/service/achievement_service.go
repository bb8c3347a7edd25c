package service

import (
	"context"
	"time"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// AchievementService defines the interface for achievement evaluation
type AchievementService interface {
	// Evaluate checks the catalog subset relevant to the trigger against
	// pre-assembled facts and persists any newly earned awards. Already
	// earned achievements are skipped, so repeated calls with identical
	// facts award nothing new.
	Evaluate(ctx context.Context, userID uuid.UUID, trigger entity.Trigger, facts entity.AchievementFacts) ([]*entity.AwardedAchievement, error)

	// ListForUser returns every catalog entry with the user's unlock state
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error)

	// MarkViewed stamps the user's unviewed awards
	MarkViewed(ctx context.Context, userID uuid.UUID, achievementIDs []int32) error
}

// AchievementStatus pairs a catalog entry with a user's unlock state.
type AchievementStatus struct {
	Definition *entity.AchievementDefinition
	Unlocked   bool
	EarnedAt   *time.Time
	Viewed     bool
}
