package repository

import (
	"context"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// DateRange bounds a confirmation fetch, inclusive on both ends.
// Empty fields leave that end unbounded.
type DateRange struct {
	Start string
	End   string
}

// ConfirmationRepository defines the interface for confirmation persistence
type ConfirmationRepository interface {
	// Upsert creates the confirmation for (challenge, user, date) or
	// updates the existing row. Rows are never deleted.
	Upsert(ctx context.Context, confirmation *entity.Confirmation) error

	// GetByUserAndChallenge retrieves every confirmation a user logged
	// for one challenge, ordered by date ascending.
	GetByUserAndChallenge(ctx context.Context, userID, challengeID uuid.UUID) ([]*entity.Confirmation, error)

	// GetByUsersAndObjective retrieves confirmations for a set of users
	// across every challenge sharing the given objective type. This
	// cross-challenge fetch is what lets several private challenges of
	// the same objective feed one leaderboard.
	GetByUsersAndObjective(ctx context.Context, userIDs []uuid.UUID, objective entity.ObjectiveType, dateRange *DateRange) ([]*entity.Confirmation, error)
}
