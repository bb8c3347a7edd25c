package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
)

// In-memory repository stand-ins for engine tests.

type fakeAwardRepo struct {
	mu      sync.Mutex
	awards  map[uuid.UUID]map[int32]*entity.AwardedAchievement
	inserts int
	failGet bool
}

func newFakeAwardRepo() *fakeAwardRepo {
	return &fakeAwardRepo{awards: make(map[uuid.UUID]map[int32]*entity.AwardedAchievement)}
}

func (f *fakeAwardRepo) Insert(_ context.Context, award *entity.AwardedAchievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	byUser := f.awards[award.UserID]
	if byUser == nil {
		byUser = make(map[int32]*entity.AwardedAchievement)
		f.awards[award.UserID] = byUser
	}
	if _, ok := byUser[award.AchievementID]; ok {
		return repository.ErrDuplicateAward
	}
	byUser[award.AchievementID] = award
	return nil
}

func (f *fakeAwardRepo) GetAwardedIDs(_ context.Context, userID uuid.UUID) (map[int32]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, fmt.Errorf("award store unavailable")
	}
	ids := make(map[int32]struct{})
	for id := range f.awards[userID] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeAwardRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.AwardedAchievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.AwardedAchievement
	for _, a := range f.awards[userID] {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAwardRepo) CountByUsers(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[uuid.UUID]int32)
	for _, id := range userIDs {
		counts[id] = int32(len(f.awards[id]))
	}
	return counts, nil
}

func (f *fakeAwardRepo) MarkViewed(_ context.Context, userID uuid.UUID, achievementIDs []int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range achievementIDs {
		if a, ok := f.awards[userID][id]; ok {
			a.ViewedAt = &now
		}
	}
	return nil
}

type fakeUserRepo struct {
	users      map[uuid.UUID]*entity.User
	increments int
	failNames  bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*entity.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetDisplayNames(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if f.failNames {
		return nil, fmt.Errorf("user store unavailable")
	}
	names := make(map[uuid.UUID]string)
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			names[id] = u.Name()
		}
	}
	return names, nil
}

func (f *fakeUserRepo) IncrementAchievementCount(_ context.Context, userID uuid.UUID) error {
	f.increments++
	if u, ok := f.users[userID]; ok {
		u.AchievementCount++
	}
	return nil
}

type fakeConfirmationRepo struct {
	logs     map[uuid.UUID][]*entity.Confirmation // by user
	failList bool
}

func newFakeConfirmationRepo() *fakeConfirmationRepo {
	return &fakeConfirmationRepo{logs: make(map[uuid.UUID][]*entity.Confirmation)}
}

func (f *fakeConfirmationRepo) Upsert(_ context.Context, c *entity.Confirmation) error {
	existing := f.logs[c.UserID]
	for i, old := range existing {
		if old.ChallengeID == c.ChallengeID && old.Date == c.Date {
			existing[i] = c
			return nil
		}
	}
	f.logs[c.UserID] = append(existing, c)
	return nil
}

func (f *fakeConfirmationRepo) GetByUserAndChallenge(_ context.Context, userID, challengeID uuid.UUID) ([]*entity.Confirmation, error) {
	var out []*entity.Confirmation
	for _, l := range f.logs[userID] {
		if l.ChallengeID == challengeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeConfirmationRepo) GetByUsersAndObjective(_ context.Context, userIDs []uuid.UUID, _ entity.ObjectiveType, dateRange *repository.DateRange) ([]*entity.Confirmation, error) {
	if f.failList {
		return nil, fmt.Errorf("log store unavailable")
	}
	var out []*entity.Confirmation
	for _, id := range userIDs {
		for _, l := range f.logs[id] {
			if dateRange != nil {
				if dateRange.Start != "" && l.Date < dateRange.Start {
					continue
				}
				if dateRange.End != "" && l.Date > dateRange.End {
					continue
				}
			}
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeMembershipRepo struct {
	memberships []*entity.Membership
}

func (f *fakeMembershipRepo) Create(_ context.Context, m *entity.Membership) error {
	f.memberships = append(f.memberships, m)
	return nil
}

func (f *fakeMembershipRepo) GetByUserAndChallenge(_ context.Context, userID, challengeID uuid.UUID) (*entity.Membership, error) {
	for _, m := range f.memberships {
		if m.UserID == userID && m.ChallengeID == challengeID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMembershipRepo) GetActiveByChallenge(_ context.Context, challengeID uuid.UUID) ([]*entity.Membership, error) {
	var out []*entity.Membership
	for _, m := range f.memberships {
		if m.ChallengeID == challengeID && m.IsActive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) GetActiveByUser(_ context.Context, userID uuid.UUID) ([]*entity.Membership, error) {
	var out []*entity.Membership
	for _, m := range f.memberships {
		if m.UserID == userID && m.IsActive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) UpdateStatus(_ context.Context, membershipID uuid.UUID, status entity.MembershipStatus, leftAt *time.Time) error {
	for _, m := range f.memberships {
		if m.ID == membershipID {
			m.Status = status
			m.LeftAt = leftAt
			return nil
		}
	}
	return fmt.Errorf("membership not found")
}

func (f *fakeMembershipRepo) CountActiveByChallenge(ctx context.Context, challengeID uuid.UUID) (int32, error) {
	active, _ := f.GetActiveByChallenge(ctx, challengeID)
	return int32(len(active)), nil
}

type fakeChallengeRepo struct {
	challenges map[uuid.UUID]*entity.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[uuid.UUID]*entity.Challenge)}
}

func (f *fakeChallengeRepo) Create(_ context.Context, c *entity.Challenge) error {
	f.challenges[c.ID] = c
	return nil
}

func (f *fakeChallengeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Challenge, error) {
	c, ok := f.challenges[id]
	if !ok {
		return nil, fmt.Errorf("challenge not found")
	}
	return c, nil
}

func (f *fakeChallengeRepo) ListPublic(_ context.Context) ([]*entity.Challenge, error) {
	var out []*entity.Challenge
	for _, c := range f.challenges {
		if c.Public && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) CountCreatedBy(_ context.Context, userID uuid.UUID) (int32, error) {
	var n int32
	for _, c := range f.challenges {
		if c.CreatorID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeChallengeRepo) Archive(_ context.Context, id uuid.UUID) error {
	if c, ok := f.challenges[id]; ok {
		c.IsActive = false
	}
	return nil
}

type fakeGuard struct {
	mu       sync.Mutex
	acquired map[string]struct{}
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{acquired: make(map[string]struct{})}
}

func (f *fakeGuard) TryAcquire(_ context.Context, challengeID uuid.UUID, timeframe entity.Timeframe, periodID string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s:%s:%s", challengeID, timeframe, periodID)
	if _, ok := f.acquired[key]; ok {
		return false, nil
	}
	f.acquired[key] = struct{}{}
	return true, nil
}
