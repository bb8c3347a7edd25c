package service

import (
	"context"
	"testing"
	"time"

	"challenges-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardFixture struct {
	svc           *leaderboardService
	challenge     *entity.Challenge
	confirmations *fakeConfirmationRepo
	memberships   *fakeMembershipRepo
	awards        *fakeAwardRepo
	users         *fakeUserRepo
	guard         *fakeGuard
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()

	challenges := newFakeChallengeRepo()
	challenge := &entity.Challenge{
		ID:            uuid.New(),
		CreatorID:     uuid.New(),
		Name:          "No Sugar June",
		ObjectiveType: entity.ObjectiveNoSugar,
		StartDate:     "2024-06-01",
		Public:        true,
		IsActive:      true,
	}
	require.NoError(t, challenges.Create(context.Background(), challenge))

	confirmations := newFakeConfirmationRepo()
	memberships := &fakeMembershipRepo{}
	awards := newFakeAwardRepo()
	users := newFakeUserRepo()
	guard := newFakeGuard()

	achievements := NewAchievementService(awards, users, nil)
	svc := NewLeaderboardService(confirmations, memberships, challenges, users, awards, achievements, guard, nil, "UTC").(*leaderboardService)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	return &boardFixture{
		svc:           svc,
		challenge:     challenge,
		confirmations: confirmations,
		memberships:   memberships,
		awards:        awards,
		users:         users,
		guard:         guard,
	}
}

func (f *boardFixture) addMember(t *testing.T, name string, joinedAt time.Time) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	f.users.users[userID] = &entity.User{ID: userID, Username: name, Timezone: "UTC"}
	require.NoError(t, f.memberships.Create(context.Background(), &entity.Membership{
		ID:          uuid.New(),
		ChallengeID: f.challenge.ID,
		UserID:      userID,
		Status:      entity.MembershipActive,
		JoinedAt:    joinedAt,
	}))
	return userID
}

func (f *boardFixture) addRun(t *testing.T, userID uuid.UUID, challengeID uuid.UUID, from string, days int) {
	t.Helper()
	date := from
	for i := 0; i < days; i++ {
		c := confirmed(date, false)
		c.UserID = userID
		c.ChallengeID = challengeID
		require.NoError(t, f.confirmations.Upsert(context.Background(), c))
		next, err := calendarNext(date)
		require.NoError(t, err)
		date = next
	}
}

func calendarNext(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02"), nil
}

func TestLeaderboard_RanksContiguousAndDescending(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := f.addMember(t, "anna", joined)
	b := f.addMember(t, "boris", joined)
	c := f.addMember(t, "vera", joined)

	f.addRun(t, a, f.challenge.ID, "2024-06-01", 5)
	f.addRun(t, b, f.challenge.ID, "2024-06-01", 2)
	f.addRun(t, c, f.challenge.ID, "2024-06-01", 8)

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, c, entries[0].UserID)
	assert.Equal(t, 8, entries[0].Score)
	assert.Equal(t, a, entries[1].UserID)
	assert.Equal(t, b, entries[2].UserID)
	assert.Equal(t, "vera", entries[0].DisplayName)
}

func TestLeaderboard_TiesKeepFetchOrder(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := f.addMember(t, "anna", joined)
	b := f.addMember(t, "boris", joined)
	f.addRun(t, a, f.challenge.ID, "2024-06-01", 5)
	f.addRun(t, b, f.challenge.ID, "2024-06-05", 5)

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Both best streaks are 5; the membership fetch order decides.
	assert.Equal(t, a, entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, b, entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboard_LifetimeScoresByCurrentStreak(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// anna peaked early but a violation ended her run; boris is still going.
	a := f.addMember(t, "anna", joined)
	b := f.addMember(t, "boris", joined)
	f.addRun(t, a, f.challenge.ID, "2024-05-01", 10)
	broken := confirmed("2024-05-11", true)
	broken.UserID = a
	broken.ChallengeID = f.challenge.ID
	require.NoError(t, f.confirmations.Upsert(context.Background(), broken))
	f.addRun(t, b, f.challenge.ID, "2024-06-10", 4)

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeLifetime)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, b, entries[0].UserID)
	assert.Equal(t, 4, entries[0].Score)
	assert.Equal(t, a, entries[1].UserID)
	assert.Equal(t, 0, entries[1].Score)
}

func TestLeaderboard_MidWindowJoinClipsLogs(t *testing.T) {
	f := newBoardFixture(t)

	// anna joined on the 8th; her run started on the 5th, so only the
	// days from the 8th on may count toward the monthly board.
	a := f.addMember(t, "anna", time.Date(2024, 6, 8, 10, 0, 0, 0, time.UTC))
	f.addRun(t, a, f.challenge.ID, "2024-06-05", 6) // 5th..10th

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Score) // 8th, 9th, 10th
}

func TestLeaderboard_SharesLogsAcrossSameObjective(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := f.addMember(t, "anna", joined)

	// Confirmations logged against a sibling challenge with the same
	// objective type still count here.
	otherChallenge := uuid.New()
	f.addRun(t, a, otherChallenge, "2024-06-01", 4)

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Score)
}

func TestLeaderboard_MemberOfTwoSameObjectiveChallengesCountsDaysOnce(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := f.addMember(t, "anna", joined)

	// The same 10-day run confirmed in this challenge and in a sibling
	// with the same objective: every date arrives twice in the fetch but
	// must count once in the fold.
	sibling := uuid.New()
	f.addRun(t, a, f.challenge.ID, "2024-06-01", 10)
	f.addRun(t, a, sibling, "2024-06-01", 10)

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].Score)
	assert.GreaterOrEqual(t, entries[0].Score, entries[0].CurrentStreak)
}

func TestLeaderboard_ViolationInSiblingChallengeBreaksTheDay(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := f.addMember(t, "anna", joined)

	// Six successes here, but June 3rd was violated in the sibling
	// challenge. The day counts as failed no matter which row the fetch
	// returns first, splitting the run into 2 + 3.
	sibling := uuid.New()
	f.addRun(t, a, f.challenge.ID, "2024-06-01", 6)
	broken := confirmed("2024-06-03", true)
	broken.UserID = a
	broken.ChallengeID = sibling
	require.NoError(t, f.confirmations.Upsert(context.Background(), broken))

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Score)
}

func TestLeaderboard_AwardsRankAchievementsOncePerPeriod(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := f.addMember(t, "anna", joined)
	f.addRun(t, a, f.challenge.ID, "2024-06-01", 5)

	_, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)

	ids, err := f.awards.GetAwardedIDs(context.Background(), a)
	require.NoError(t, err)
	assert.NotEmpty(t, ids)
	insertsAfterFirstView := f.awards.inserts

	// A second view in the same period is guard-gated: no new evaluation,
	// no duplicate insert attempts.
	_, err = f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	assert.Equal(t, insertsAfterFirstView, f.awards.inserts)
}

func TestLeaderboard_PodiumAcrossAllTimeframes(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := f.addMember(t, "anna", joined)
	// Run ends "today" (June 15), so the current streak is alive and anna
	// tops month, year and lifetime at once.
	f.addRun(t, a, f.challenge.ID, "2024-06-01", 15)

	_, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)

	ids, err := f.awards.GetAwardedIDs(context.Background(), a)
	require.NoError(t, err)

	var codes []string
	for id := range ids {
		codes = append(codes, DefinitionByID(id).Code)
	}
	assert.Contains(t, codes, "monthly_champion")
	assert.Contains(t, codes, "podium")
	assert.Contains(t, codes, "triple_podium")
}

func TestLeaderboard_EmptyCohort(t *testing.T) {
	f := newBoardFixture(t)
	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboard_UnknownTimeframeFailsFast(t *testing.T) {
	f := newBoardFixture(t)
	_, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.Timeframe("WEEK"))
	assert.Error(t, err)
}

func TestLeaderboard_LogFetchFailureDegradesToEmptyBoard(t *testing.T) {
	f := newBoardFixture(t)
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f.addMember(t, "anna", joined)
	f.confirmations.failList = true

	entries, err := f.svc.Leaderboard(context.Background(), f.challenge.ID, entity.TimeframeMonth)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
