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

type challengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository creates a new PostgreSQL challenge repository
func NewChallengeRepository(pool *pgxpool.Pool) repository.ChallengeRepository {
	return &challengeRepository{pool: pool}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *entity.Challenge) error {
	query := `
		INSERT INTO challenges (
			id, creator_id, name, description, objective_type,
			start_date, duration_days, public, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.pool.Exec(ctx, query,
		challenge.ID, challenge.CreatorID, challenge.Name, challenge.Description, challenge.ObjectiveType,
		challenge.StartDate, challenge.DurationDays, challenge.Public, challenge.IsActive,
		challenge.CreatedAt, challenge.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	return nil
}

func (r *challengeRepository) GetByID(ctx context.Context, challengeID uuid.UUID) (*entity.Challenge, error) {
	query := `
		SELECT
			id, creator_id, name, description, objective_type,
			start_date, duration_days, public, is_active, created_at, updated_at
		FROM challenges
		WHERE id = $1
	`

	challenge := &entity.Challenge{}
	err := r.pool.QueryRow(ctx, query, challengeID).Scan(
		&challenge.ID, &challenge.CreatorID, &challenge.Name, &challenge.Description, &challenge.ObjectiveType,
		&challenge.StartDate, &challenge.DurationDays, &challenge.Public, &challenge.IsActive,
		&challenge.CreatedAt, &challenge.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return challenge, nil
}

func (r *challengeRepository) ListPublic(ctx context.Context) ([]*entity.Challenge, error) {
	query := `
		SELECT
			id, creator_id, name, description, objective_type,
			start_date, duration_days, public, is_active, created_at, updated_at
		FROM challenges
		WHERE public = TRUE AND is_active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list public challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*entity.Challenge
	for rows.Next() {
		challenge := &entity.Challenge{}
		err := rows.Scan(
			&challenge.ID, &challenge.CreatorID, &challenge.Name, &challenge.Description, &challenge.ObjectiveType,
			&challenge.StartDate, &challenge.DurationDays, &challenge.Public, &challenge.IsActive,
			&challenge.CreatedAt, &challenge.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenges: %w", err)
	}

	return challenges, nil
}

func (r *challengeRepository) CountCreatedBy(ctx context.Context, userID uuid.UUID) (int32, error) {
	query := `
		SELECT COUNT(*) FROM challenges WHERE creator_id = $1
	`

	var count int32
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count created challenges: %w", err)
	}

	return count, nil
}

func (r *challengeRepository) Archive(ctx context.Context, challengeID uuid.UUID) error {
	query := `
		UPDATE challenges SET
			is_active = FALSE,
			updated_at = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, time.Now().UTC(), challengeID)
	if err != nil {
		return fmt.Errorf("failed to archive challenge: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge not found")
	}

	return nil
}
