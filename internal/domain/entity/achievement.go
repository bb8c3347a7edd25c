package entity

import (
	"time"

	"github.com/google/uuid"
)

// AchievementCategory groups achievements for display.
type AchievementCategory string

const (
	CategoryStreak      AchievementCategory = "streak"
	CategoryConsistency AchievementCategory = "consistency"
	CategoryChallenge   AchievementCategory = "challenge"
	CategorySocial      AchievementCategory = "social"
	CategoryLeaderboard AchievementCategory = "leaderboard"
)

// AchievementTier is the rarity bucket, used only for display priority.
type AchievementTier string

const (
	TierBronze    AchievementTier = "bronze"
	TierSilver    AchievementTier = "silver"
	TierGold      AchievementTier = "gold"
	TierPlatinum  AchievementTier = "platinum"
	TierLegendary AchievementTier = "legendary"
)

// RequirementType selects the predicate family an achievement is checked
// against. The threshold parameterizes it.
type RequirementType string

const (
	RequirementStreak             RequirementType = "streak"
	RequirementBestStreak         RequirementType = "best_streak"
	RequirementContiguousDays     RequirementType = "contiguous_days"
	RequirementTotalDays          RequirementType = "total_days"
	RequirementFirstConfirmation  RequirementType = "first_confirmation"
	RequirementChallengeCompleted RequirementType = "challenge_completed"
	RequirementChallengesCreated  RequirementType = "challenges_created"
	RequirementChallengesJoined   RequirementType = "challenges_joined"
	RequirementLargeChallenge     RequirementType = "large_challenge_joined"
	RequirementPublicJoined       RequirementType = "public_challenge_joined"
	RequirementPublicJoinedCount  RequirementType = "public_challenges_joined"
	RequirementPublicMultiStreak  RequirementType = "public_multi_streak"
	RequirementRankFirstMonth     RequirementType = "rank_first_month"
	RequirementRankFirstYear      RequirementType = "rank_first_year"
	RequirementRankFirstLifetime  RequirementType = "rank_first_lifetime"
	RequirementTop3               RequirementType = "top_3"
	RequirementPodiumAll          RequirementType = "podium_all_timeframes"
)

// Requirement is the declarative unlock condition of an achievement.
type Requirement struct {
	Type      RequirementType
	Threshold int
}

// AchievementDefinition is one entry of the static catalog. The catalog is
// immutable at runtime and not user data.
type AchievementDefinition struct {
	ID          int32
	Code        string
	Name        string
	Description string
	Category    AchievementCategory
	Tier        AchievementTier
	Requirement Requirement
	Order       int32
}

// AwardedAchievement records that a user unlocked an achievement.
// At most one row exists per (user, achievement).
type AwardedAchievement struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AchievementID int32
	EarnedAt      time.Time
	ViewedAt      *time.Time
}

// Trigger identifies the context an achievement evaluation runs in. Each
// trigger re-evaluates a fixed subset of predicate families.
type Trigger string

const (
	TriggerDailyConfirmation  Trigger = "daily_confirmation"
	TriggerChallengeCreated   Trigger = "challenge_created"
	TriggerChallengeJoined    Trigger = "challenge_joined"
	TriggerChallengeCompleted Trigger = "challenge_completed"
	TriggerLeaderboard        Trigger = "leaderboard"
)

// AchievementFacts is the pre-assembled evidence a single evaluation runs
// against. Callers gather it before calling the rule engine; the engine
// itself performs no I/O over it.
type AchievementFacts struct {
	Streak           Streak
	ContiguousDays   int
	TotalSuccessDays int

	ChallengesCreated      int
	ChallengesJoined       int
	JoinedChallengeSize    int
	JoinedChallengePublic  bool
	PublicChallengesJoined int
	PublicActiveStreaks    int

	ChallengeCompleted bool

	// LeaderboardRanks is populated only by the leaderboard scorer; the
	// generic evaluation path never satisfies rank predicates.
	LeaderboardRanks map[Timeframe]int
}
