package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"challenges-service/internal/calendar"
	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"
	domainservice "challenges-service/internal/domain/service"

	"github.com/google/uuid"
)

type challengeService struct {
	challenges    repository.ChallengeRepository
	memberships   repository.MembershipRepository
	confirmations repository.ConfirmationRepository
	users         repository.UserRepository
	achievements  domainservice.AchievementService
}

// NewChallengeService creates a new challenge service
func NewChallengeService(
	challenges repository.ChallengeRepository,
	memberships repository.MembershipRepository,
	confirmations repository.ConfirmationRepository,
	users repository.UserRepository,
	achievements domainservice.AchievementService,
) domainservice.ChallengeService {
	return &challengeService{
		challenges:    challenges,
		memberships:   memberships,
		confirmations: confirmations,
		users:         users,
		achievements:  achievements,
	}
}

func (s *challengeService) CreateChallenge(ctx context.Context, creatorID uuid.UUID, name string, description *string,
	objective entity.ObjectiveType, startDate string, durationDays int32, public bool) (*entity.Challenge, error) {

	if name == "" {
		return nil, fmt.Errorf("challenge name is required")
	}
	if _, err := calendar.Parse(startDate); err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	if durationDays < 0 {
		return nil, fmt.Errorf("duration_days must not be negative")
	}

	now := time.Now().UTC()
	challenge := &entity.Challenge{
		ID:            uuid.New(),
		CreatorID:     creatorID,
		Name:          name,
		Description:   description,
		ObjectiveType: objective,
		StartDate:     startDate,
		DurationDays:  durationDays,
		Public:        public,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	role := "owner"
	membership := &entity.Membership{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		UserID:      creatorID,
		Status:      entity.MembershipActive,
		Role:        &role,
		JoinedAt:    now,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to enroll creator: %w", err)
	}

	created, err := s.challenges.CountCreatedBy(ctx, creatorID)
	if err != nil {
		log.Printf("failed to count created challenges for user %s: %v", creatorID, err)
	} else {
		facts := entity.AchievementFacts{ChallengesCreated: int(created)}
		if _, err := s.achievements.Evaluate(ctx, creatorID, entity.TriggerChallengeCreated, facts); err != nil {
			log.Printf("failed to evaluate creation achievements for user %s: %v", creatorID, err)
		}
	}

	return challenge, nil
}

func (s *challengeService) JoinChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*entity.Membership, error) {
	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsActive {
		return nil, fmt.Errorf("challenge is archived")
	}

	membership, err := s.memberships.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}

	switch {
	case membership == nil:
		membership = &entity.Membership{
			ID:          uuid.New(),
			ChallengeID: challengeID,
			UserID:      userID,
			Status:      entity.MembershipActive,
			JoinedAt:    time.Now().UTC(),
		}
		if err := s.memberships.Create(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to create membership: %w", err)
		}
	case membership.IsActive():
		// Joining twice is a no-op.
		return membership, nil
	default:
		// A rejoin reactivates the original row, preserving JoinedAt.
		if err := s.memberships.UpdateStatus(ctx, membership.ID, entity.MembershipActive, nil); err != nil {
			return nil, fmt.Errorf("failed to reactivate membership: %w", err)
		}
		membership.Status = entity.MembershipActive
		membership.LeftAt = nil
	}

	facts, err := s.assembleJoinFacts(ctx, userID, challenge)
	if err != nil {
		log.Printf("failed to assemble join facts for user %s: %v", userID, err)
	} else {
		if _, err := s.achievements.Evaluate(ctx, userID, entity.TriggerChallengeJoined, facts); err != nil {
			log.Printf("failed to evaluate join achievements for user %s: %v", userID, err)
		}
	}

	return membership, nil
}

func (s *challengeService) LeaveChallenge(ctx context.Context, userID, challengeID uuid.UUID) error {
	membership, err := s.memberships.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil || !membership.IsActive() {
		return fmt.Errorf("user is not a member of this challenge")
	}

	leftAt := time.Now().UTC()
	if err := s.memberships.UpdateStatus(ctx, membership.ID, entity.MembershipLeft, &leftAt); err != nil {
		return fmt.Errorf("failed to leave challenge: %w", err)
	}
	return nil
}

func (s *challengeService) ConfirmDay(ctx context.Context, userID, challengeID uuid.UUID, date string, violated bool, notes *string) (*entity.Confirmation, error) {
	if _, err := calendar.Parse(date); err != nil {
		return nil, err
	}

	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	membership, err := s.memberships.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil || !membership.IsActive() {
		return nil, fmt.Errorf("user is not a member of this challenge")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	today, err := calendar.Today(user.Timezone)
	if err != nil {
		return nil, err
	}
	if calendar.IsBefore(today, date) {
		return nil, fmt.Errorf("cannot confirm a future date %s", date)
	}
	if calendar.IsBefore(date, challenge.StartDate) {
		return nil, fmt.Errorf("date %s is before the challenge start %s", date, challenge.StartDate)
	}

	now := time.Now().UTC()
	confirmation := &entity.Confirmation{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		UserID:      userID,
		Date:        date,
		Violated:    violated,
		ConfirmedAt: &now,
		Notes:       notes,
		CreatedAt:   now,
	}
	if err := s.confirmations.Upsert(ctx, confirmation); err != nil {
		return nil, fmt.Errorf("failed to upsert confirmation: %w", err)
	}

	// Awards ride along best effort; the confirmation itself already stuck.
	logs, err := s.confirmations.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		log.Printf("failed to fetch logs for achievement evaluation: %v", err)
		return confirmation, nil
	}

	totalSuccess := 0
	for _, l := range logs {
		if l.IsSuccess() {
			totalSuccess++
		}
	}

	facts := entity.AchievementFacts{
		Streak:           CalculateStreaks(logs),
		ContiguousDays:   CalculateCheckInRun(logs),
		TotalSuccessDays: totalSuccess,
	}
	if _, err := s.achievements.Evaluate(ctx, userID, entity.TriggerDailyConfirmation, facts); err != nil {
		log.Printf("failed to evaluate daily achievements for user %s: %v", userID, err)
	}

	if challenge.DurationDays > 0 && totalSuccess >= int(challenge.DurationDays) {
		done := entity.AchievementFacts{ChallengeCompleted: true}
		if _, err := s.achievements.Evaluate(ctx, userID, entity.TriggerChallengeCompleted, done); err != nil {
			log.Printf("failed to evaluate completion achievements for user %s: %v", userID, err)
		}
	}

	return confirmation, nil
}

func (s *challengeService) GetStreaks(ctx context.Context, userID, challengeID uuid.UUID) (entity.Streak, error) {
	logs, err := s.confirmations.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		return entity.Streak{}, fmt.Errorf("failed to fetch confirmations: %w", err)
	}
	return CalculateStreaks(logs), nil
}

func (s *challengeService) GetPendingDays(ctx context.Context, userID, challengeID uuid.UUID) ([]string, error) {
	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	membership, err := s.memberships.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return nil, fmt.Errorf("user is not a member of this challenge")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// The obligation starts at the later of the challenge start and the
	// member's own join date.
	startDate := challenge.StartDate
	joinDate, err := calendar.DateOf(membership.JoinedAt, user.Timezone)
	if err == nil && calendar.IsBefore(startDate, joinDate) {
		startDate = joinDate
	}

	logs, err := s.confirmations.GetByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmations: %w", err)
	}

	return DetectPendingDays(logs, user.Timezone, startDate)
}

// assembleJoinFacts gathers the membership-shaped evidence the join-trigger
// predicates need. Evaluation itself stays pure.
func (s *challengeService) assembleJoinFacts(ctx context.Context, userID uuid.UUID, joined *entity.Challenge) (entity.AchievementFacts, error) {
	active, err := s.memberships.GetActiveByUser(ctx, userID)
	if err != nil {
		return entity.AchievementFacts{}, fmt.Errorf("failed to list memberships: %w", err)
	}

	size, err := s.memberships.CountActiveByChallenge(ctx, joined.ID)
	if err != nil {
		return entity.AchievementFacts{}, fmt.Errorf("failed to count members: %w", err)
	}

	facts := entity.AchievementFacts{
		ChallengesJoined:      len(active),
		JoinedChallengeSize:   int(size),
		JoinedChallengePublic: joined.Public,
	}

	for _, m := range active {
		challenge := joined
		if m.ChallengeID != joined.ID {
			challenge, err = s.challenges.GetByID(ctx, m.ChallengeID)
			if err != nil {
				log.Printf("failed to get challenge %s: %v", m.ChallengeID, err)
				continue
			}
		}
		if !challenge.Public {
			continue
		}
		facts.PublicChallengesJoined++

		logs, err := s.confirmations.GetByUserAndChallenge(ctx, userID, m.ChallengeID)
		if err != nil {
			log.Printf("failed to fetch logs for challenge %s: %v", m.ChallengeID, err)
			continue
		}
		if CalculateStreaks(logs).Current >= publicStreakActiveDays {
			facts.PublicActiveStreaks++
		}
	}

	return facts, nil
}
