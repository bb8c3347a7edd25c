package entity

import (
	"time"

	"github.com/google/uuid"
)

// Confirmation is a single daily pass/fail record for a challenge.
// There is at most one row per (user, challenge, date); confirming an
// existing day upserts the row, rows are never deleted.
type Confirmation struct {
	ID          uuid.UUID
	ChallengeID uuid.UUID
	UserID      uuid.UUID

	// Date is the calendar day being reported, "YYYY-MM-DD" in the
	// user's timezone at the time of logging.
	Date string

	// Violated is true when the challenge rule was broken that day.
	Violated bool

	// ConfirmedAt is nil while the row is logged but not yet confirmed.
	// Unconfirmed rows are excluded from streak and score math.
	ConfirmedAt *time.Time

	Notes     *string
	CreatedAt time.Time
}

// IsConfirmed reports whether the confirmation counts toward streaks.
func (c *Confirmation) IsConfirmed() bool {
	return c.ConfirmedAt != nil
}

// IsSuccess reports whether the confirmation is a confirmed, non-violated day.
func (c *Confirmation) IsSuccess() bool {
	return c.IsConfirmed() && !c.Violated
}
