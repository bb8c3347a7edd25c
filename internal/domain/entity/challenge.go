package entity

import (
	"time"

	"github.com/google/uuid"
)

// ObjectiveType is the rule family a challenge enforces. Leaderboards match
// confirmations by objective type, not by challenge identity, so several
// private challenges of the same type feed one shared ranking.
type ObjectiveType string

const (
	ObjectiveNoSugar       ObjectiveType = "no_sugar"
	ObjectiveZeroAlcohol   ObjectiveType = "zero_alcohol"
	ObjectiveDailyExercise ObjectiveType = "daily_exercise"
	ObjectiveCustom        ObjectiveType = "custom"
)

// Challenge is a habit challenge a cohort of users confirms against daily.
type Challenge struct {
	ID        uuid.UUID
	CreatorID uuid.UUID

	Name          string
	Description   *string
	ObjectiveType ObjectiveType

	// StartDate ("YYYY-MM-DD") is the first day members are expected to
	// confirm. Pending-day detection never reaches before it.
	StartDate string

	// DurationDays is the completion target; 0 means open-ended.
	DurationDays int32

	Public bool

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
