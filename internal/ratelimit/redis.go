package ratelimit

import (
	"context"
	"fmt"
	"time"

	domainerrors "poll-service/internal/domain/errors"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in per-key sorted sets shared by all workers.
// The window slides: each request is scored with its wall-clock time and
// entries older than the window are trimmed before counting, so there is no
// burst at window edges. The whole check runs as one pipeline, keeping the
// increment atomic per key.
type RedisLimiter struct {
	client  *redis.Client
	budgets Budgets
}

func NewRedisLimiter(client *redis.Client, budgets Budgets) *RedisLimiter {
	return &RedisLimiter{client: client, budgets: budgets}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity string, op Op) error {
	limit, ok := l.budgets.Limits[op]
	if !ok {
		return fmt.Errorf("rate limit: no budget for operation %q", op)
	}

	key := fmt.Sprintf("rate_limit:%s:%s", op, identity)
	now := time.Now()
	windowStart := now.Add(-l.budgets.Window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, l.budgets.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit check for %q: %w", key, err)
	}

	if countCmd.Val() >= int64(limit) {
		return domainerrors.ErrRateLimited
	}
	return nil
}
