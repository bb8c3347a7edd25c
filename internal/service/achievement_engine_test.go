package service

import (
	"context"
	"testing"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_DailyTriggerAwardsStreakAchievements(t *testing.T) {
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &entity.User{ID: userID, Username: "ivan", Timezone: "UTC"}

	svc := NewAchievementService(awards, users, nil)

	facts := entity.AchievementFacts{
		Streak:           entity.Streak{Current: 7, Best: 7, LastConfirmedDate: "2024-06-07"},
		ContiguousDays:   7,
		TotalSuccessDays: 7,
	}
	newly, err := svc.Evaluate(context.Background(), userID, entity.TriggerDailyConfirmation, facts)
	require.NoError(t, err)

	codes := awardCodes(t, newly)
	assert.Contains(t, codes, "first_step")
	assert.Contains(t, codes, "streak_3")
	assert.Contains(t, codes, "streak_7")
	assert.Contains(t, codes, "checkin_week")
	assert.NotContains(t, codes, "streak_30")
	assert.NotContains(t, codes, "total_10")
	assert.Equal(t, len(newly), users.increments)
}

func TestEvaluate_AtMostOncePerAchievement(t *testing.T) {
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &entity.User{ID: userID, Username: "ivan", Timezone: "UTC"}

	svc := NewAchievementService(awards, users, nil)
	facts := entity.AchievementFacts{
		Streak:           entity.Streak{Current: 3, Best: 3, LastConfirmedDate: "2024-06-03"},
		TotalSuccessDays: 3,
	}

	first, err := svc.Evaluate(context.Background(), userID, entity.TriggerDailyConfirmation, facts)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := svc.Evaluate(context.Background(), userID, entity.TriggerDailyConfirmation, facts)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestEvaluate_TriggerSelectsCatalogSubset(t *testing.T) {
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &entity.User{ID: userID, Username: "ivan", Timezone: "UTC"}

	svc := NewAchievementService(awards, users, nil)

	// Join-shaped facts under a daily trigger must award nothing social.
	facts := entity.AchievementFacts{
		ChallengesJoined:       10,
		PublicChallengesJoined: 5,
		JoinedChallengePublic:  true,
	}
	newly, err := svc.Evaluate(context.Background(), userID, entity.TriggerDailyConfirmation, facts)
	require.NoError(t, err)
	assert.Empty(t, newly)

	newly, err = svc.Evaluate(context.Background(), userID, entity.TriggerChallengeJoined, facts)
	require.NoError(t, err)
	codes := awardCodes(t, newly)
	assert.Contains(t, codes, "joiner")
	assert.Contains(t, codes, "joiner_10")
	assert.Contains(t, codes, "going_public")
	assert.Contains(t, codes, "public_5")
}

func TestEvaluate_RankPredicatesNeedLeaderboardTrigger(t *testing.T) {
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &entity.User{ID: userID, Username: "ivan", Timezone: "UTC"}

	svc := NewAchievementService(awards, users, nil)

	ranks := map[entity.Timeframe]int{
		entity.TimeframeMonth:    1,
		entity.TimeframeYear:     2,
		entity.TimeframeLifetime: 3,
	}

	newly, err := svc.Evaluate(context.Background(), userID, entity.TriggerLeaderboard, entity.AchievementFacts{LeaderboardRanks: ranks})
	require.NoError(t, err)
	codes := awardCodes(t, newly)
	assert.Contains(t, codes, "monthly_champion")
	assert.Contains(t, codes, "podium")
	assert.Contains(t, codes, "triple_podium")
	assert.NotContains(t, codes, "yearly_champion")
}

func TestEvaluate_PodiumRequiresAllThreeTimeframes(t *testing.T) {
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &entity.User{ID: userID, Username: "ivan", Timezone: "UTC"}

	svc := NewAchievementService(awards, users, nil)

	ranks := map[entity.Timeframe]int{
		entity.TimeframeMonth: 1,
		entity.TimeframeYear:  3,
		// no lifetime rank
	}
	newly, err := svc.Evaluate(context.Background(), userID, entity.TriggerLeaderboard, entity.AchievementFacts{LeaderboardRanks: ranks})
	require.NoError(t, err)
	assert.NotContains(t, awardCodes(t, newly), "triple_podium")
}

func TestEvaluate_FailsWhenAwardSetUnavailable(t *testing.T) {
	awards := newFakeAwardRepo()
	awards.failGet = true
	users := newFakeUserRepo()

	svc := NewAchievementService(awards, users, nil)
	_, err := svc.Evaluate(context.Background(), uuid.New(), entity.TriggerDailyConfirmation, entity.AchievementFacts{TotalSuccessDays: 1})
	assert.Error(t, err)
	assert.Zero(t, awards.inserts)
}

func TestListForUser_MarksUnlockedAndViewed(t *testing.T) {
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &entity.User{ID: userID, Username: "ivan", Timezone: "UTC"}

	svc := NewAchievementService(awards, users, nil)
	_, err := svc.Evaluate(context.Background(), userID, entity.TriggerDailyConfirmation, entity.AchievementFacts{TotalSuccessDays: 1})
	require.NoError(t, err)

	statuses, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, statuses, len(Catalog))

	var firstStep *int
	for i, st := range statuses {
		if st.Definition.Code == "first_step" {
			idx := i
			firstStep = &idx
		}
	}
	require.NotNil(t, firstStep)
	assert.True(t, statuses[*firstStep].Unlocked)
	assert.False(t, statuses[*firstStep].Viewed)

	require.NoError(t, svc.MarkViewed(context.Background(), userID, []int32{statuses[*firstStep].Definition.ID}))
	statuses, err = svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, statuses[*firstStep].Viewed)
}

func TestCatalog_IDsAndCodesUnique(t *testing.T) {
	ids := make(map[int32]struct{})
	codes := make(map[string]struct{})
	for _, def := range Catalog {
		if _, ok := ids[def.ID]; ok {
			t.Fatalf("duplicate achievement id %d", def.ID)
		}
		if _, ok := codes[def.Code]; ok {
			t.Fatalf("duplicate achievement code %s", def.Code)
		}
		ids[def.ID] = struct{}{}
		codes[def.Code] = struct{}{}
	}
}

func TestCatalogForTrigger_LeaderboardIsolation(t *testing.T) {
	for _, def := range CatalogForTrigger(entity.TriggerDailyConfirmation) {
		if isRankRequirement(def.Requirement.Type) {
			t.Fatalf("rank achievement %s leaked into daily trigger", def.Code)
		}
	}
	for _, def := range CatalogForTrigger(entity.TriggerLeaderboard) {
		if !isRankRequirement(def.Requirement.Type) {
			t.Fatalf("non-rank achievement %s leaked into leaderboard trigger", def.Code)
		}
	}
	assert.Empty(t, CatalogForTrigger(entity.Trigger("bogus")))
}

func awardCodes(t *testing.T, awards []*entity.AwardedAchievement) []string {
	t.Helper()
	codes := make([]string, 0, len(awards))
	for _, a := range awards {
		def := DefinitionByID(a.AchievementID)
		if def == nil {
			t.Fatalf("award references unknown achievement %d", a.AchievementID)
		}
		codes = append(codes, def.Code)
	}
	return codes
}
