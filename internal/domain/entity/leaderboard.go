package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Timeframe is the leaderboard scoring window.
type Timeframe string

const (
	TimeframeMonth    Timeframe = "MONTH"
	TimeframeYear     Timeframe = "YEAR"
	TimeframeLifetime Timeframe = "LIFETIME"
)

// Timeframes lists every scoring window, in podium-evaluation order.
var Timeframes = []Timeframe{TimeframeMonth, TimeframeYear, TimeframeLifetime}

// ParseTimeframe validates a caller-supplied timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeMonth, TimeframeYear, TimeframeLifetime:
		return Timeframe(s), nil
	default:
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
}

// LeaderboardEntry is a derived ranking row; it is computed on demand and
// never stored.
type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	UserID           uuid.UUID `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	Score            int       `json:"score"`
	CurrentStreak    int       `json:"current_streak"`
	AchievementCount int       `json:"achievement_count"`
}
