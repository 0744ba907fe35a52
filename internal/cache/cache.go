package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when a key is absent or expired. Any other
// error from a backend is an infrastructure fault and must not be mistaken
// for missing data.
var ErrMiss = errors.New("cache miss")

// Cache stores computed result snapshots under TTL-bounded keys. All keys
// derived from a poll share its invalidation scope: Invalidate removes them
// unconditionally and is idempotent on absent keys.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pollID uint) error
}

// ActivePollsKey caches the active poll listing. It is refreshed by TTL
// only, never invalidated per poll.
const ActivePollsKey = "polls:active"

func DetailKey(pollID uint) string {
	return fmt.Sprintf("poll:%d:detail", pollID)
}

func ResultsKey(pollID uint) string {
	return fmt.Sprintf("poll:%d:results", pollID)
}

// pollKeys are the entries removed when a vote commits against the poll.
func pollKeys(pollID uint) []string {
	return []string{DetailKey(pollID), ResultsKey(pollID)}
}
