package postgres

import (
	"context"
	"fmt"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type confirmationRepository struct {
	pool *pgxpool.Pool
}

// NewConfirmationRepository creates a new PostgreSQL confirmation repository
func NewConfirmationRepository(pool *pgxpool.Pool) repository.ConfirmationRepository {
	return &confirmationRepository{pool: pool}
}

func (r *confirmationRepository) Upsert(ctx context.Context, confirmation *entity.Confirmation) error {
	query := `
		INSERT INTO confirmations (
			id, challenge_id, user_id, date, violated, confirmed_at, notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (challenge_id, user_id, date) DO UPDATE SET
			violated = EXCLUDED.violated,
			confirmed_at = EXCLUDED.confirmed_at,
			notes = EXCLUDED.notes
	`

	_, err := r.pool.Exec(ctx, query,
		confirmation.ID,
		confirmation.ChallengeID,
		confirmation.UserID,
		confirmation.Date,
		confirmation.Violated,
		confirmation.ConfirmedAt,
		confirmation.Notes,
		confirmation.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert confirmation: %w", err)
	}

	return nil
}

func (r *confirmationRepository) GetByUserAndChallenge(ctx context.Context, userID, challengeID uuid.UUID) ([]*entity.Confirmation, error) {
	query := `
		SELECT
			id, challenge_id, user_id, date, violated, confirmed_at, notes, created_at
		FROM confirmations
		WHERE user_id = $1 AND challenge_id = $2
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []*entity.Confirmation
	for rows.Next() {
		confirmation := &entity.Confirmation{}
		err := rows.Scan(
			&confirmation.ID,
			&confirmation.ChallengeID,
			&confirmation.UserID,
			&confirmation.Date,
			&confirmation.Violated,
			&confirmation.ConfirmedAt,
			&confirmation.Notes,
			&confirmation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, confirmation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confirmations: %w", err)
	}

	return confirmations, nil
}

func (r *confirmationRepository) GetByUsersAndObjective(ctx context.Context, userIDs []uuid.UUID, objective entity.ObjectiveType, dateRange *repository.DateRange) ([]*entity.Confirmation, error) {
	// Logs are matched through the owning challenge's objective type, not
	// its id: sibling challenges feed the same leaderboard.
	query := `
		SELECT
			c.id, c.challenge_id, c.user_id, c.date, c.violated, c.confirmed_at, c.notes, c.created_at
		FROM confirmations c
		JOIN challenges ch ON ch.id = c.challenge_id
		WHERE c.user_id = ANY($1) AND ch.objective_type = $2
	`

	args := []interface{}{userIDs, objective}
	if dateRange != nil {
		if dateRange.Start != "" {
			args = append(args, dateRange.Start)
			query += fmt.Sprintf(" AND c.date >= $%d", len(args))
		}
		if dateRange.End != "" {
			args = append(args, dateRange.End)
			query += fmt.Sprintf(" AND c.date <= $%d", len(args))
		}
	}
	query += " ORDER BY c.user_id, c.date ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmations by objective: %w", err)
	}
	defer rows.Close()

	var confirmations []*entity.Confirmation
	for rows.Next() {
		confirmation := &entity.Confirmation{}
		err := rows.Scan(
			&confirmation.ID,
			&confirmation.ChallengeID,
			&confirmation.UserID,
			&confirmation.Date,
			&confirmation.Violated,
			&confirmation.ConfirmedAt,
			&confirmation.Notes,
			&confirmation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, confirmation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confirmations: %w", err)
	}

	return confirmations, nil
}
