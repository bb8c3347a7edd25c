package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/repository"

	"github.com/google/uuid"
)

// PeriodGuard is an in-process fallback used when Redis is disabled. Keys
// are lost on restart, which only costs a redundant evaluation since award
// inserts are insert-if-absent.
type PeriodGuard struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewPeriodGuard creates an in-memory period guard
func NewPeriodGuard() *PeriodGuard {
	return &PeriodGuard{entries: make(map[string]time.Time)}
}

var _ repository.PeriodGuard = (*PeriodGuard)(nil)

// TryAcquire reports whether the caller is the first holder of the key
// within its TTL.
func (g *PeriodGuard) TryAcquire(ctx context.Context, challengeID uuid.UUID, timeframe entity.Timeframe, periodID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	key := fmt.Sprintf("periodaward:%s:%s:%s", challengeID.String(), timeframe, periodID)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, ok := g.entries[key]; ok && now.Before(expiry) {
		return false, nil
	}

	g.entries[key] = now.Add(ttl)
	return true, nil
}
