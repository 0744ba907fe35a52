package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainerrors "poll-service/internal/domain/errors"
)

// MemoryLimiter mirrors the Redis backend's sliding-window semantics with a
// process-local timestamp log per (operation, identity) key. Suitable for
// single-worker deployments and tests.
type MemoryLimiter struct {
	mu      sync.Mutex
	budgets Budgets
	seen    map[string][]time.Time

	now func() time.Time
}

func NewMemoryLimiter(budgets Budgets) *MemoryLimiter {
	return &MemoryLimiter{
		budgets: budgets,
		seen:    make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, identity string, op Op) error {
	limit, ok := l.budgets.Limits[op]
	if !ok {
		return fmt.Errorf("rate limit: no budget for operation %q", op)
	}

	key := fmt.Sprintf("%s:%s", op, identity)
	now := l.now()
	windowStart := now.Add(-l.budgets.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.seen[key]
	kept := log[:0]
	for _, ts := range log {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	count := len(kept)
	// Rejected requests are recorded too, matching the Redis backend.
	l.seen[key] = append(kept, now)

	if count >= limit {
		return domainerrors.ErrRateLimited
	}
	return nil
}
