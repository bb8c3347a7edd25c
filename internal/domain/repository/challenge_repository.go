package repository

import (
	"context"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// ChallengeRepository defines the interface for challenge persistence
type ChallengeRepository interface {
	// Create creates a new challenge
	Create(ctx context.Context, challenge *entity.Challenge) error

	// GetByID retrieves a challenge by ID
	GetByID(ctx context.Context, challengeID uuid.UUID) (*entity.Challenge, error)

	// ListPublic retrieves all active public challenges
	ListPublic(ctx context.Context) ([]*entity.Challenge, error)

	// CountCreatedBy returns how many challenges a user has created
	CountCreatedBy(ctx context.Context, userID uuid.UUID) (int32, error)

	// Archive soft deletes a challenge (sets is_active = false)
	Archive(ctx context.Context, challengeID uuid.UUID) error
}
