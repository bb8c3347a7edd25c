package postgres

import (
	"context"
	"fmt"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type awardRepository struct {
	pool *pgxpool.Pool
}

// NewAwardRepository creates a new PostgreSQL award repository
func NewAwardRepository(pool *pgxpool.Pool) repository.AwardRepository {
	return &awardRepository{pool: pool}
}

func (r *awardRepository) Insert(ctx context.Context, award *entity.AwardedAchievement) error {
	// Insert-if-absent: the unique constraint on (user_id, achievement_id)
	// makes concurrent duplicate attempts collapse into one row, so the
	// at-most-once guarantee does not depend on a prior existence check.
	query := `
		INSERT INTO user_achievements (
			id, user_id, achievement_id, earned_at, viewed_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		award.ID, award.UserID, award.AchievementID, award.EarnedAt, award.ViewedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert award: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrDuplicateAward
	}

	return nil
}

func (r *awardRepository) GetAwardedIDs(ctx context.Context, userID uuid.UUID) (map[int32]struct{}, error) {
	query := `
		SELECT achievement_id FROM user_achievements WHERE user_id = $1
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get awarded ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int32]struct{})
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate awarded ids: %w", err)
	}

	return ids, nil
}

func (r *awardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.AwardedAchievement, error) {
	query := `
		SELECT
			id, user_id, achievement_id, earned_at, viewed_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	defer rows.Close()

	var awards []*entity.AwardedAchievement
	for rows.Next() {
		award := &entity.AwardedAchievement{}
		err := rows.Scan(
			&award.ID, &award.UserID, &award.AchievementID, &award.EarnedAt, &award.ViewedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan award: %w", err)
		}
		awards = append(awards, award)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate awards: %w", err)
	}

	return awards, nil
}

func (r *awardRepository) CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int32, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM user_achievements
		WHERE user_id = ANY($1)
		GROUP BY user_id
	`

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count awards: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int32, len(userIDs))
	for rows.Next() {
		var userID uuid.UUID
		var count int32
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan award count: %w", err)
		}
		counts[userID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate award counts: %w", err)
	}

	return counts, nil
}

func (r *awardRepository) MarkViewed(ctx context.Context, userID uuid.UUID, achievementIDs []int32) error {
	query := `
		UPDATE user_achievements SET
			viewed_at = NOW()
		WHERE user_id = $1 AND achievement_id = ANY($2) AND viewed_at IS NULL
	`

	_, err := r.pool.Exec(ctx, query, userID, achievementIDs)
	if err != nil {
		return fmt.Errorf("failed to mark awards viewed: %w", err)
	}

	return nil
}
