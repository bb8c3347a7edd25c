package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"
	domainservice "challenges-service/internal/domain/service"

	"github.com/google/uuid"
)

type achievementService struct {
	awards repository.AwardRepository
	users  repository.UserRepository
	events repository.EventPublisher // optional
}

// NewAchievementService creates a new achievement rule engine. events may be
// nil when no event pipeline is configured.
func NewAchievementService(
	awards repository.AwardRepository,
	users repository.UserRepository,
	events repository.EventPublisher,
) domainservice.AchievementService {
	return &achievementService{
		awards: awards,
		users:  users,
		events: events,
	}
}

func (s *achievementService) Evaluate(ctx context.Context, userID uuid.UUID, trigger entity.Trigger, facts entity.AchievementFacts) ([]*entity.AwardedAchievement, error) {
	// The existing-award set is the at-most-once line of defense; without
	// it we cannot evaluate safely, so this fetch is the one hard failure.
	earned, err := s.awards.GetAwardedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load awarded achievements: %w", err)
	}

	var newly []*entity.AwardedAchievement
	for _, def := range CatalogForTrigger(trigger) {
		if _, ok := earned[def.ID]; ok {
			continue
		}

		// Rank predicates carry meaning only inside the scorer; anywhere
		// else they are skipped rather than evaluated against ranks that
		// were never computed.
		if isRankRequirement(def.Requirement.Type) && trigger != entity.TriggerLeaderboard {
			log.Printf("skipping rank achievement %s outside leaderboard trigger %s", def.Code, trigger)
			continue
		}

		if !requirementSatisfied(def, facts) {
			continue
		}

		award := &entity.AwardedAchievement{
			ID:            uuid.New(),
			UserID:        userID,
			AchievementID: def.ID,
			EarnedAt:      time.Now().UTC(),
		}

		if err := s.awards.Insert(ctx, award); err != nil {
			if errors.Is(err, repository.ErrDuplicateAward) {
				// A concurrent evaluation got there first; the award
				// exists, which is the end state we wanted.
				continue
			}
			return newly, fmt.Errorf("failed to insert award %s: %w", def.Code, err)
		}

		if err := s.users.IncrementAchievementCount(ctx, userID); err != nil {
			log.Printf("failed to increment achievement count for user %s: %v", userID, err)
		}

		if s.events != nil {
			if err := s.events.PublishAchievementUnlocked(ctx, userID, def, award.EarnedAt); err != nil {
				log.Printf("failed to publish achievement event %s: %v", def.Code, err)
			}
		}

		newly = append(newly, award)
	}

	return newly, nil
}

func (s *achievementService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domainservice.AchievementStatus, error) {
	awards, err := s.awards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}

	byID := make(map[int32]*entity.AwardedAchievement, len(awards))
	for _, a := range awards {
		byID[a.AchievementID] = a
	}

	statuses := make([]*domainservice.AchievementStatus, 0, len(Catalog))
	for _, def := range Catalog {
		status := &domainservice.AchievementStatus{Definition: def}
		if a, ok := byID[def.ID]; ok {
			status.Unlocked = true
			earnedAt := a.EarnedAt
			status.EarnedAt = &earnedAt
			status.Viewed = a.ViewedAt != nil
		}
		statuses = append(statuses, status)
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Definition.Order < statuses[j].Definition.Order
	})

	return statuses, nil
}

func (s *achievementService) MarkViewed(ctx context.Context, userID uuid.UUID, achievementIDs []int32) error {
	if err := s.awards.MarkViewed(ctx, userID, achievementIDs); err != nil {
		return fmt.Errorf("failed to mark achievements viewed: %w", err)
	}
	return nil
}
