package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const eventDedupPrefix = "sms:event:"

// EventDeduper records webhook event IDs so redelivered events are processed
// at most once.
type EventDeduper interface {
	// FirstSeen atomically records the event ID and reports whether this is
	// the first time it has been observed.
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

// RedisEventDeduper stores seen event IDs in Redis with a TTL.
type RedisEventDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventDeduper(client *redis.Client, ttl time.Duration) *RedisEventDeduper {
	return &RedisEventDeduper{client: client, ttl: ttl}
}

func (d *RedisEventDeduper) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, eventDedupPrefix+eventID, 1, d.ttl).Result()
}

// MemoryEventDeduper is the in-process fallback used in development and tests.
type MemoryEventDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func NewMemoryEventDeduper(ttl time.Duration) *MemoryEventDeduper {
	return &MemoryEventDeduper{seen: make(map[string]time.Time), ttl: ttl}
}

func (d *MemoryEventDeduper) FirstSeen(_ context.Context, eventID string) (bool, error) {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if expiry, ok := d.seen[eventID]; ok && now.Before(expiry) {
		return false, nil
	}
	d.seen[eventID] = now.Add(d.ttl)
	return true, nil
}
