package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"challenges-service/internal/calendar"
	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"
	domainservice "challenges-service/internal/domain/service"

	"github.com/google/uuid"
)

// leaderboardCacheTTL bounds how stale a served ranking snapshot may be.
const leaderboardCacheTTL = 5 * time.Minute

// awardWindow is the resolved scoring window of one timeframe.
type awardWindow struct {
	// start/end bound the log fetch, inclusive; "" leaves the end open.
	start string
	end   string

	// periodID keys the period award guard, e.g. "2024-06" for MONTH.
	periodID string

	// guardTTL keeps the guard key alive past the period's end.
	guardTTL time.Duration
}

type leaderboardService struct {
	confirmations repository.ConfirmationRepository
	memberships   repository.MembershipRepository
	challenges    repository.ChallengeRepository
	users         repository.UserRepository
	awards        repository.AwardRepository
	achievements  domainservice.AchievementService
	guard         repository.PeriodGuard
	cache         repository.LeaderboardCache // optional

	// timezone anchors window resolution; leaderboards are cohort-level,
	// so a single service-wide zone applies.
	timezone string

	now func() time.Time
}

// NewLeaderboardService creates a new leaderboard scorer. cache may be nil.
func NewLeaderboardService(
	confirmations repository.ConfirmationRepository,
	memberships repository.MembershipRepository,
	challenges repository.ChallengeRepository,
	users repository.UserRepository,
	awards repository.AwardRepository,
	achievements domainservice.AchievementService,
	guard repository.PeriodGuard,
	cache repository.LeaderboardCache,
	timezone string,
) domainservice.LeaderboardService {
	return &leaderboardService{
		confirmations: confirmations,
		memberships:   memberships,
		challenges:    challenges,
		users:         users,
		awards:        awards,
		achievements:  achievements,
		guard:         guard,
		cache:         cache,
		timezone:      timezone,
		now:           time.Now,
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe) ([]*entity.LeaderboardEntry, error) {
	if _, err := entity.ParseTimeframe(string(timeframe)); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if entries, err := s.cache.Get(ctx, challengeID, timeframe); err != nil {
			log.Printf("leaderboard cache read failed: %v", err)
		} else if entries != nil {
			return entries, nil
		}
	}

	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	members, err := s.memberships.GetActiveByChallenge(ctx, challengeID)
	if err != nil {
		// A fetch failure degrades to an empty board; the page still renders.
		log.Printf("failed to get members for challenge %s: %v", challengeID, err)
		return []*entity.LeaderboardEntry{}, nil
	}

	entries, err := s.score(ctx, challenge, timeframe, members)
	if err != nil {
		return nil, err
	}

	s.decorate(ctx, entries)
	s.awardRankAchievements(ctx, challenge, timeframe, entries, members)

	if s.cache != nil {
		if err := s.cache.Set(ctx, challengeID, timeframe, entries, leaderboardCacheTTL); err != nil {
			log.Printf("leaderboard cache write failed: %v", err)
		}
	}

	return entries, nil
}

// score aggregates the cohort's logs into a ranked board. Logs are matched
// by objective type, not challenge id: sibling challenges with the same
// objective intentionally feed the same ranking.
func (s *leaderboardService) score(ctx context.Context, challenge *entity.Challenge, timeframe entity.Timeframe, members []*entity.Membership) ([]*entity.LeaderboardEntry, error) {
	window, err := s.resolveWindow(timeframe)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	if len(userIDs) == 0 {
		return []*entity.LeaderboardEntry{}, nil
	}

	var rng *repository.DateRange
	if window.start != "" {
		rng = &repository.DateRange{Start: window.start, End: window.end}
	}

	logs, err := s.confirmations.GetByUsersAndObjective(ctx, userIDs, challenge.ObjectiveType, rng)
	if err != nil {
		log.Printf("failed to fetch logs for objective %s: %v", challenge.ObjectiveType, err)
		return []*entity.LeaderboardEntry{}, nil
	}

	byUser := make(map[uuid.UUID][]*entity.Confirmation)
	for _, l := range logs {
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	entries := make([]*entity.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		// Sibling challenges can each hold a row for the same day; the
		// streak fold requires unique dates, so a day counts once.
		userLogs := collapseByDate(byUser[m.UserID])

		// A member who joined mid-window only scores days after joining;
		// lifetime boards count everything.
		if window.start != "" {
			joinDate, err := calendar.DateOf(m.JoinedAt, s.timezone)
			if err == nil && calendar.IsBefore(window.start, joinDate) {
				userLogs = dropBefore(userLogs, joinDate)
			}
		}

		streak := CalculateStreaks(userLogs)

		score := streak.Best
		if timeframe == entity.TimeframeLifetime {
			// Lifetime ranking reflects present standing, not past peaks.
			score = streak.Current
		}

		entries = append(entries, &entity.LeaderboardEntry{
			UserID:        m.UserID,
			Score:         score,
			CurrentStreak: streak.Current,
		})
	}

	// Ties keep fetch order; no secondary key is defined.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i, e := range entries {
		e.Rank = i + 1
	}

	return entries, nil
}

// decorate fills in display names and achievement counts, best effort.
func (s *leaderboardService) decorate(ctx context.Context, entries []*entity.LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}

	userIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
	}

	names, err := s.users.GetDisplayNames(ctx, userIDs)
	if err != nil {
		log.Printf("failed to resolve display names: %v", err)
	}
	counts, err := s.awards.CountByUsers(ctx, userIDs)
	if err != nil {
		log.Printf("failed to count achievements: %v", err)
	}

	for _, e := range entries {
		if names != nil {
			e.DisplayName = names[e.UserID]
		}
		if counts != nil {
			e.AchievementCount = int(counts[e.UserID])
		}
	}
}

// awardRankAchievements runs the leaderboard-only achievement predicates for
// the podium finishers of the current period, once per (challenge,
// timeframe, period). Podium-across-all-timeframes needs the other two
// boards recomputed independently, so every top-3 user gets a full rank map.
func (s *leaderboardService) awardRankAchievements(ctx context.Context, challenge *entity.Challenge, timeframe entity.Timeframe, entries []*entity.LeaderboardEntry, members []*entity.Membership) {
	if len(entries) == 0 {
		return
	}

	window, err := s.resolveWindow(timeframe)
	if err != nil {
		log.Printf("failed to resolve award window: %v", err)
		return
	}

	acquired, err := s.guard.TryAcquire(ctx, challenge.ID, timeframe, window.periodID, window.guardTTL)
	if err != nil {
		log.Printf("period guard failed for challenge %s: %v", challenge.ID, err)
		return
	}
	if !acquired {
		return
	}

	ranks := map[entity.Timeframe]map[uuid.UUID]int{timeframe: rankByUser(entries)}
	for _, tf := range entity.Timeframes {
		if tf == timeframe {
			continue
		}
		other, err := s.score(ctx, challenge, tf, members)
		if err != nil {
			log.Printf("failed to score %s board for podium check: %v", tf, err)
			continue
		}
		ranks[tf] = rankByUser(other)
	}

	for _, e := range entries {
		if e.Rank > 3 {
			continue
		}

		userRanks := make(map[entity.Timeframe]int, len(ranks))
		for tf, m := range ranks {
			if r, ok := m[e.UserID]; ok {
				userRanks[tf] = r
			}
		}

		facts := entity.AchievementFacts{LeaderboardRanks: userRanks}
		if _, err := s.achievements.Evaluate(ctx, e.UserID, entity.TriggerLeaderboard, facts); err != nil {
			log.Printf("failed to evaluate rank achievements for user %s: %v", e.UserID, err)
		}
	}
}

// resolveWindow maps a timeframe onto concrete date bounds and a period key,
// anchored at "now" in the service timezone.
func (s *leaderboardService) resolveWindow(timeframe entity.Timeframe) (awardWindow, error) {
	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		return awardWindow{}, fmt.Errorf("invalid timezone %q: %w", s.timezone, err)
	}
	now := s.now().In(loc)

	switch timeframe {
	case entity.TimeframeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, -1)
		return awardWindow{
			start:    calendar.Format(start),
			end:      calendar.Format(end),
			periodID: now.Format("2006-01"),
			guardTTL: end.AddDate(0, 0, 7).Sub(now),
		}, nil
	case entity.TimeframeYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, loc)
		return awardWindow{
			start:    calendar.Format(start),
			end:      calendar.Format(end),
			periodID: now.Format("2006"),
			guardTTL: end.AddDate(0, 0, 7).Sub(now),
		}, nil
	case entity.TimeframeLifetime:
		// Open-ended window; the guard re-opens daily, which is safe
		// because awarding is idempotent.
		return awardWindow{
			periodID: "lifetime",
			guardTTL: 24 * time.Hour,
		}, nil
	default:
		return awardWindow{}, fmt.Errorf("unknown timeframe %q", timeframe)
	}
}

func rankByUser(entries []*entity.LeaderboardEntry) map[uuid.UUID]int {
	m := make(map[uuid.UUID]int, len(entries))
	for _, e := range entries {
		m[e.UserID] = e.Rank
	}
	return m
}

// collapseByDate merges a cross-challenge log fetch down to one row per
// date. A confirmed row beats an unconfirmed one; among confirmed rows a
// violation in any challenge marks the whole day violated.
func collapseByDate(logs []*entity.Confirmation) []*entity.Confirmation {
	byDate := make(map[string]*entity.Confirmation, len(logs))
	for _, l := range logs {
		cur, ok := byDate[l.Date]
		if !ok {
			byDate[l.Date] = l
			continue
		}
		if !cur.IsConfirmed() {
			byDate[l.Date] = l
			continue
		}
		if l.IsConfirmed() && l.Violated && !cur.Violated {
			byDate[l.Date] = l
		}
	}

	collapsed := make([]*entity.Confirmation, 0, len(byDate))
	for _, l := range byDate {
		collapsed = append(collapsed, l)
	}
	return collapsed
}

func dropBefore(logs []*entity.Confirmation, date string) []*entity.Confirmation {
	kept := make([]*entity.Confirmation, 0, len(logs))
	for _, l := range logs {
		if !calendar.IsBefore(l.Date, date) {
			kept = append(kept, l)
		}
	}
	return kept
}
