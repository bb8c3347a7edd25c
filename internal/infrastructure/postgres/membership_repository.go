package postgres

import (
	"context"
	"fmt"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository creates a new PostgreSQL membership repository
func NewMembershipRepository(pool *pgxpool.Pool) repository.MembershipRepository {
	return &membershipRepository{pool: pool}
}

func (r *membershipRepository) Create(ctx context.Context, membership *entity.Membership) error {
	query := `
		INSERT INTO memberships (
			id, challenge_id, user_id, status, role, joined_at, left_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.pool.Exec(ctx, query,
		membership.ID, membership.ChallengeID, membership.UserID,
		membership.Status, membership.Role, membership.JoinedAt, membership.LeftAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

func (r *membershipRepository) GetByUserAndChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*entity.Membership, error) {
	query := `
		SELECT
			id, challenge_id, user_id, status, role, joined_at, left_at
		FROM memberships
		WHERE user_id = $1 AND challenge_id = $2
	`

	membership := &entity.Membership{}
	err := r.pool.QueryRow(ctx, query, userID, challengeID).Scan(
		&membership.ID, &membership.ChallengeID, &membership.UserID,
		&membership.Status, &membership.Role, &membership.JoinedAt, &membership.LeftAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Not a member
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return membership, nil
}

func (r *membershipRepository) GetActiveByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*entity.Membership, error) {
	// joined_at order doubles as the leaderboard tie-break order.
	query := `
		SELECT
			id, challenge_id, user_id, status, role, joined_at, left_at
		FROM memberships
		WHERE challenge_id = $1 AND status = 'ACTIVE'
		ORDER BY joined_at ASC
	`

	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func (r *membershipRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Membership, error) {
	query := `
		SELECT
			id, challenge_id, user_id, status, role, joined_at, left_at
		FROM memberships
		WHERE user_id = $1 AND status = 'ACTIVE'
		ORDER BY joined_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func (r *membershipRepository) UpdateStatus(ctx context.Context, membershipID uuid.UUID, status entity.MembershipStatus, leftAt *time.Time) error {
	query := `
		UPDATE memberships SET
			status = $1,
			left_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, status, leftAt, membershipID)
	if err != nil {
		return fmt.Errorf("failed to update membership status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("membership not found")
	}

	return nil
}

func (r *membershipRepository) CountActiveByChallenge(ctx context.Context, challengeID uuid.UUID) (int32, error) {
	query := `
		SELECT COUNT(*) FROM memberships WHERE challenge_id = $1 AND status = 'ACTIVE'
	`

	var count int32
	err := r.pool.QueryRow(ctx, query, challengeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}

	return count, nil
}

func scanMemberships(rows pgx.Rows) ([]*entity.Membership, error) {
	var memberships []*entity.Membership
	for rows.Next() {
		membership := &entity.Membership{}
		err := rows.Scan(
			&membership.ID, &membership.ChallengeID, &membership.UserID,
			&membership.Status, &membership.Role, &membership.JoinedAt, &membership.LeftAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return memberships, nil
}
