package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	raw      []byte
	deadline time.Time
}

// MemoryCache is a process-local backend for single-worker deployments and
// tests. Values are stored JSON-encoded so Get has the same decoding
// behavior as the Redis backend. Expired entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().After(e.deadline) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(e.raw, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = entry{raw: raw, deadline: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, pollID uint) error {
	c.mu.Lock()
	for _, key := range pollKeys(pollID) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}
