package repository

import (
	"context"
	"time"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
)

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, membership *entity.Membership) error

	// GetByUserAndChallenge retrieves the membership linking a user to a
	// challenge regardless of status, or nil when none exists.
	GetByUserAndChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*entity.Membership, error)

	// GetActiveByChallenge retrieves all active memberships of a challenge,
	// ordered by join time ascending. This order is the leaderboard's
	// tie-break order.
	GetActiveByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*entity.Membership, error)

	// GetActiveByUser retrieves all active memberships of a user
	GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Membership, error)

	// UpdateStatus flips a membership between ACTIVE and LEFT.
	// Rejoining reactivates the row rather than recreating it.
	UpdateStatus(ctx context.Context, membershipID uuid.UUID, status entity.MembershipStatus, leftAt *time.Time) error

	// CountActiveByChallenge returns the active member count of a challenge
	CountActiveByChallenge(ctx context.Context, challengeID uuid.UUID) (int32, error)
}
