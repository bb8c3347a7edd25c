package service

import (
	"challenges-service/internal/domain/entity"
)

// publicStreakActiveDays is the minimum current streak that counts a public
// challenge as "actively streaked" for the multi-streak achievements.
const publicStreakActiveDays = 7

// Catalog is the static achievement table. It is read-only at runtime;
// evaluation walks the subset selected by the trigger context.
var Catalog = []*entity.AchievementDefinition{
	// Streak milestones
	{ID: 1, Code: "first_step", Name: "First Step", Description: "Confirm your first successful day", Category: entity.CategoryStreak, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementFirstConfirmation, Threshold: 1}, Order: 10},
	{ID: 2, Code: "streak_3", Name: "Warming Up", Description: "Hold a 3-day streak", Category: entity.CategoryStreak, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementStreak, Threshold: 3}, Order: 20},
	{ID: 3, Code: "streak_7", Name: "One Week Strong", Description: "Hold a 7-day streak", Category: entity.CategoryStreak, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementStreak, Threshold: 7}, Order: 30},
	{ID: 4, Code: "streak_30", Name: "Month of Iron", Description: "Hold a 30-day streak", Category: entity.CategoryStreak, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementStreak, Threshold: 30}, Order: 40},
	{ID: 5, Code: "streak_100", Name: "Centurion", Description: "Hold a 100-day streak", Category: entity.CategoryStreak, Tier: entity.TierPlatinum, Requirement: entity.Requirement{Type: entity.RequirementStreak, Threshold: 100}, Order: 50},
	{ID: 6, Code: "streak_365", Name: "Year One", Description: "Hold a 365-day streak", Category: entity.CategoryStreak, Tier: entity.TierLegendary, Requirement: entity.Requirement{Type: entity.RequirementStreak, Threshold: 365}, Order: 60},
	{ID: 7, Code: "best_streak_14", Name: "Fortnight Peak", Description: "Reach a best streak of 14 days", Category: entity.CategoryStreak, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementBestStreak, Threshold: 14}, Order: 70},
	{ID: 8, Code: "best_streak_60", Name: "Two-Month Peak", Description: "Reach a best streak of 60 days", Category: entity.CategoryStreak, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementBestStreak, Threshold: 60}, Order: 80},

	// Consistency
	{ID: 9, Code: "checkin_week", Name: "Showing Up", Description: "Check in 7 days in a row, pass or fail", Category: entity.CategoryConsistency, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementContiguousDays, Threshold: 7}, Order: 90},
	{ID: 10, Code: "checkin_month", Name: "Always There", Description: "Check in 30 days in a row, pass or fail", Category: entity.CategoryConsistency, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementContiguousDays, Threshold: 30}, Order: 100},
	{ID: 11, Code: "total_10", Name: "Double Digits", Description: "Log 10 successful days in total", Category: entity.CategoryConsistency, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementTotalDays, Threshold: 10}, Order: 110},
	{ID: 12, Code: "total_50", Name: "Fifty Club", Description: "Log 50 successful days in total", Category: entity.CategoryConsistency, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementTotalDays, Threshold: 50}, Order: 120},
	{ID: 13, Code: "total_200", Name: "Two Hundred", Description: "Log 200 successful days in total", Category: entity.CategoryConsistency, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementTotalDays, Threshold: 200}, Order: 130},
	{ID: 14, Code: "total_500", Name: "Half Thousand", Description: "Log 500 successful days in total", Category: entity.CategoryConsistency, Tier: entity.TierPlatinum, Requirement: entity.Requirement{Type: entity.RequirementTotalDays, Threshold: 500}, Order: 140},

	// Challenge lifecycle
	{ID: 15, Code: "challenge_done", Name: "Finisher", Description: "Complete a challenge", Category: entity.CategoryChallenge, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementChallengeCompleted, Threshold: 1}, Order: 150},
	{ID: 16, Code: "founder", Name: "Founder", Description: "Create your first challenge", Category: entity.CategoryChallenge, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementChallengesCreated, Threshold: 1}, Order: 160},
	{ID: 17, Code: "serial_founder", Name: "Serial Founder", Description: "Create 5 challenges", Category: entity.CategoryChallenge, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementChallengesCreated, Threshold: 5}, Order: 170},

	// Social
	{ID: 18, Code: "joiner", Name: "Joiner", Description: "Join your first challenge", Category: entity.CategorySocial, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementChallengesJoined, Threshold: 1}, Order: 180},
	{ID: 19, Code: "joiner_3", Name: "Busy Bee", Description: "Be active in 3 challenges", Category: entity.CategorySocial, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementChallengesJoined, Threshold: 3}, Order: 190},
	{ID: 20, Code: "joiner_10", Name: "Everywhere", Description: "Be active in 10 challenges", Category: entity.CategorySocial, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementChallengesJoined, Threshold: 10}, Order: 200},
	{ID: 21, Code: "big_crowd", Name: "Big Crowd", Description: "Join a challenge with 25 or more members", Category: entity.CategorySocial, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementLargeChallenge, Threshold: 25}, Order: 210},
	{ID: 22, Code: "going_public", Name: "Going Public", Description: "Join a public challenge", Category: entity.CategorySocial, Tier: entity.TierBronze, Requirement: entity.Requirement{Type: entity.RequirementPublicJoined, Threshold: 1}, Order: 220},
	{ID: 23, Code: "public_5", Name: "Public Figure", Description: "Be active in 5 public challenges", Category: entity.CategorySocial, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementPublicJoinedCount, Threshold: 5}, Order: 230},
	{ID: 24, Code: "multi_streak_3", Name: "Juggler", Description: "Keep week-long streaks alive in 3 public challenges at once", Category: entity.CategorySocial, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementPublicMultiStreak, Threshold: 3}, Order: 240},

	// Leaderboard — only ever satisfied through the scorer
	{ID: 25, Code: "monthly_champion", Name: "Monthly Champion", Description: "Finish rank 1 on a monthly leaderboard", Category: entity.CategoryLeaderboard, Tier: entity.TierGold, Requirement: entity.Requirement{Type: entity.RequirementRankFirstMonth, Threshold: 1}, Order: 250},
	{ID: 26, Code: "yearly_champion", Name: "Yearly Champion", Description: "Finish rank 1 on a yearly leaderboard", Category: entity.CategoryLeaderboard, Tier: entity.TierPlatinum, Requirement: entity.Requirement{Type: entity.RequirementRankFirstYear, Threshold: 1}, Order: 260},
	{ID: 27, Code: "all_time_great", Name: "All-Time Great", Description: "Hold rank 1 on a lifetime leaderboard", Category: entity.CategoryLeaderboard, Tier: entity.TierLegendary, Requirement: entity.Requirement{Type: entity.RequirementRankFirstLifetime, Threshold: 1}, Order: 270},
	{ID: 28, Code: "podium", Name: "Podium", Description: "Reach the top 3 of any leaderboard", Category: entity.CategoryLeaderboard, Tier: entity.TierSilver, Requirement: entity.Requirement{Type: entity.RequirementTop3, Threshold: 3}, Order: 280},
	{ID: 29, Code: "triple_podium", Name: "Triple Podium", Description: "Stand on the podium of the monthly, yearly and lifetime boards at once", Category: entity.CategoryLeaderboard, Tier: entity.TierLegendary, Requirement: entity.Requirement{Type: entity.RequirementPodiumAll, Threshold: 3}, Order: 290},
}

// triggerRequirements is the fixed mapping from trigger context to the
// predicate families it re-evaluates. A daily confirmation never touches
// leaderboard predicates, and the leaderboard trigger touches nothing else.
var triggerRequirements = map[entity.Trigger][]entity.RequirementType{
	entity.TriggerDailyConfirmation: {
		entity.RequirementFirstConfirmation,
		entity.RequirementStreak,
		entity.RequirementBestStreak,
		entity.RequirementContiguousDays,
		entity.RequirementTotalDays,
	},
	entity.TriggerChallengeCreated: {
		entity.RequirementChallengesCreated,
	},
	entity.TriggerChallengeJoined: {
		entity.RequirementChallengesJoined,
		entity.RequirementLargeChallenge,
		entity.RequirementPublicJoined,
		entity.RequirementPublicJoinedCount,
		entity.RequirementPublicMultiStreak,
	},
	entity.TriggerChallengeCompleted: {
		entity.RequirementChallengeCompleted,
	},
	entity.TriggerLeaderboard: {
		entity.RequirementRankFirstMonth,
		entity.RequirementRankFirstYear,
		entity.RequirementRankFirstLifetime,
		entity.RequirementTop3,
		entity.RequirementPodiumAll,
	},
}

// CatalogForTrigger returns the catalog subset a trigger re-evaluates,
// in catalog order.
func CatalogForTrigger(trigger entity.Trigger) []*entity.AchievementDefinition {
	types, ok := triggerRequirements[trigger]
	if !ok {
		return nil
	}
	wanted := make(map[entity.RequirementType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	var defs []*entity.AchievementDefinition
	for _, def := range Catalog {
		if _, ok := wanted[def.Requirement.Type]; ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// DefinitionByID looks up a catalog entry.
func DefinitionByID(id int32) *entity.AchievementDefinition {
	for _, def := range Catalog {
		if def.ID == id {
			return def
		}
	}
	return nil
}

// isRankRequirement reports whether a predicate family can only be
// satisfied with ranking context.
func isRankRequirement(t entity.RequirementType) bool {
	switch t {
	case entity.RequirementRankFirstMonth, entity.RequirementRankFirstYear,
		entity.RequirementRankFirstLifetime, entity.RequirementTop3,
		entity.RequirementPodiumAll:
		return true
	}
	return false
}

// requirementSatisfied evaluates one predicate against the facts. It is a
// pure function; assembling the facts is the caller's job.
func requirementSatisfied(def *entity.AchievementDefinition, facts entity.AchievementFacts) bool {
	r := def.Requirement
	switch r.Type {
	case entity.RequirementStreak:
		return facts.Streak.Current >= r.Threshold
	case entity.RequirementBestStreak:
		return facts.Streak.Best >= r.Threshold
	case entity.RequirementContiguousDays:
		return facts.ContiguousDays >= r.Threshold
	case entity.RequirementTotalDays:
		return facts.TotalSuccessDays >= r.Threshold
	case entity.RequirementFirstConfirmation:
		return facts.TotalSuccessDays >= 1
	case entity.RequirementChallengeCompleted:
		return facts.ChallengeCompleted
	case entity.RequirementChallengesCreated:
		return facts.ChallengesCreated >= r.Threshold
	case entity.RequirementChallengesJoined:
		return facts.ChallengesJoined >= r.Threshold
	case entity.RequirementLargeChallenge:
		return facts.JoinedChallengeSize >= r.Threshold
	case entity.RequirementPublicJoined:
		return facts.JoinedChallengePublic
	case entity.RequirementPublicJoinedCount:
		return facts.PublicChallengesJoined >= r.Threshold
	case entity.RequirementPublicMultiStreak:
		return facts.PublicActiveStreaks >= r.Threshold
	case entity.RequirementRankFirstMonth:
		return facts.LeaderboardRanks[entity.TimeframeMonth] == 1
	case entity.RequirementRankFirstYear:
		return facts.LeaderboardRanks[entity.TimeframeYear] == 1
	case entity.RequirementRankFirstLifetime:
		return facts.LeaderboardRanks[entity.TimeframeLifetime] == 1
	case entity.RequirementTop3:
		for _, rank := range facts.LeaderboardRanks {
			if rank >= 1 && rank <= 3 {
				return true
			}
		}
		return false
	case entity.RequirementPodiumAll:
		for _, tf := range entity.Timeframes {
			rank, ok := facts.LeaderboardRanks[tf]
			if !ok || rank < 1 || rank > 3 {
				return false
			}
		}
		return true
	default:
		return false
	}
}
