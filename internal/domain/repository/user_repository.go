package repository

import (
	"context"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user lookups the engines need
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// GetDisplayNames resolves display names for a set of users
	GetDisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)

	// IncrementAchievementCount bumps the lifetime achievement counter
	IncrementAchievementCount(ctx context.Context, userID uuid.UUID) error
}
