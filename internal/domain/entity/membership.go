package entity

import (
	"time"

	"github.com/google/uuid"
)

// MembershipStatus tracks whether a member is currently participating.
type MembershipStatus string

const (
	MembershipActive MembershipStatus = "ACTIVE"
	MembershipLeft   MembershipStatus = "LEFT"
)

// Membership links a user to a challenge cohort. A rejoin reactivates the
// existing row instead of creating a new one, so JoinedAt survives leaving.
type Membership struct {
	ID          uuid.UUID
	ChallengeID uuid.UUID
	UserID      uuid.UUID

	Status MembershipStatus
	Role   *string

	JoinedAt time.Time
	LeftAt   *time.Time
}

// IsActive reports whether the member currently participates.
func (m *Membership) IsActive() bool {
	return m.Status == MembershipActive
}
