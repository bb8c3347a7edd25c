package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// AchievementUnlockedEvent is the payload published when a user earns an
// achievement. Downstream consumers (notifications, activity feed) key off
// the user ID.
type AchievementUnlockedEvent struct {
	UserID          string    `json:"user_id"`
	AchievementID   int32     `json:"achievement_id"`
	AchievementCode string    `json:"achievement_code"`
	Name            string    `json:"name"`
	Tier            string    `json:"tier"`
	EarnedAt        time.Time `json:"earned_at"`
}

// Producer publishes achievement events to Kafka.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka producer for the given brokers and topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer}
}

var _ repository.EventPublisher = (*Producer)(nil)

// PublishAchievementUnlocked sends an achievement.unlocked event
func (p *Producer) PublishAchievementUnlocked(ctx context.Context, userID uuid.UUID, def *entity.AchievementDefinition, earnedAt time.Time) error {
	event := AchievementUnlockedEvent{
		UserID:          userID.String(),
		AchievementID:   def.ID,
		AchievementCode: def.Code,
		Name:            def.Name,
		Tier:            string(def.Tier),
		EarnedAt:        earnedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal achievement event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(userID.String()),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish achievement event: %w", err)
	}

	return nil
}

// Close closes the underlying writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
