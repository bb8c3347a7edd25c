package postgres

import (
	"context"
	"fmt"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	query := `
		SELECT
			id, username, display_name, timezone, achievement_count, created_at
		FROM users
		WHERE id = $1
	`

	user := &entity.User{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Timezone,
		&user.AchievementCount, &user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetDisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	query := `
		SELECT id, username, display_name
		FROM users
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get display names: %w", err)
	}
	defer rows.Close()

	names := make(map[uuid.UUID]string, len(userIDs))
	for rows.Next() {
		var id uuid.UUID
		var username string
		var displayName *string
		if err := rows.Scan(&id, &username, &displayName); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if displayName != nil && *displayName != "" {
			names[id] = *displayName
		} else {
			names[id] = username
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return names, nil
}

func (r *userRepository) IncrementAchievementCount(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users SET
			achievement_count = achievement_count + 1
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to increment achievement count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
