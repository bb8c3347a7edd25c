package entity

import (
	"time"

	"github.com/google/uuid"
)

// User carries the slice of profile data the engines need: timezone for
// calendar resolution, display name for leaderboards, and the lifetime
// achievement counter.
type User struct {
	ID          uuid.UUID
	Username    string
	DisplayName *string

	// Timezone is an IANA zone name, e.g. "Europe/Sofia".
	Timezone string

	AchievementCount int32
	CreatedAt        time.Time
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
