package repository

import (
	"context"
	"errors"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDuplicateAward is returned by Insert when the (user, achievement) pair
// already exists. Concurrent evaluations can race to award the same
// achievement; the duplicate loser must treat this as success.
var ErrDuplicateAward = errors.New("achievement already awarded")

// AwardRepository defines the interface for awarded-achievement persistence
type AwardRepository interface {
	// Insert persists an award as an atomic insert-if-absent and returns
	// ErrDuplicateAward when the award already exists.
	Insert(ctx context.Context, award *entity.AwardedAchievement) error

	// GetAwardedIDs returns the set of achievement ids a user has earned
	GetAwardedIDs(ctx context.Context, userID uuid.UUID) (map[int32]struct{}, error)

	// ListByUser retrieves all awards of a user, most recent first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.AwardedAchievement, error)

	// CountByUsers returns per-user award counts for a set of users
	CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int32, error)

	// MarkViewed stamps viewed_at on a user's unviewed awards
	MarkViewed(ctx context.Context, userID uuid.UUID, achievementIDs []int32) error
}
