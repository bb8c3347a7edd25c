package service

import (
	"context"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// ChallengeService defines the interface for challenge business logic
type ChallengeService interface {
	// CreateChallenge creates a challenge and enrolls the creator
	CreateChallenge(ctx context.Context, creatorID uuid.UUID, name string, description *string,
		objective entity.ObjectiveType, startDate string, durationDays int32, public bool) (*entity.Challenge, error)

	// JoinChallenge enrolls a user; a previous LEFT membership is reactivated
	JoinChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*entity.Membership, error)

	// LeaveChallenge flips the user's membership to LEFT
	LeaveChallenge(ctx context.Context, userID, challengeID uuid.UUID) error

	// ConfirmDay upserts the pass/fail record for one calendar day and
	// runs the daily achievement evaluation
	ConfirmDay(ctx context.Context, userID, challengeID uuid.UUID, date string, violated bool, notes *string) (*entity.Confirmation, error)

	// GetStreaks folds the user's confirmed log for one challenge
	GetStreaks(ctx context.Context, userID, challengeID uuid.UUID) (entity.Streak, error)

	// GetPendingDays lists the calendar days still awaiting confirmation
	GetPendingDays(ctx context.Context, userID, challengeID uuid.UUID) ([]string, error)
}
