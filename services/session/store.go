// File: services/session/store.go
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"glowdesk/models"

	"github.com/go-redis/redis/v8"
)

const contextKeyPrefix = "chat:ctx:"

// DefaultTTL is how long an idle conversation context survives.
const DefaultTTL = 30 * time.Minute

// DefaultReadCacheTTL bounds the in-process read cache that sits in front
// of Redis to avoid repeat reads inside one logical turn.
const DefaultReadCacheTTL = 30 * time.Second

// Store persists conversation contexts keyed by conversation identity
// (channel + external user id). Get returns nil for a missing or expired
// context. Save is a whole-context write that refreshes the TTL; callers
// follow a read-merge-write pattern, so two messages racing on the same
// key can overwrite each other — an accepted limitation, not a guarantee.
type Store interface {
	Get(ctx context.Context, key string) (*models.BookingContext, error)
	Save(ctx context.Context, key string, bc *models.BookingContext) error
	Clear(ctx context.Context, key string) error
}

type cacheEntry struct {
	bc      models.BookingContext
	fetched time.Time
}

// RedisStore keeps contexts as JSON in Redis with a server-side TTL, plus
// a short-lived read cache. Redis is always the source of truth; the
// cache is a same-process optimization only.
type RedisStore struct {
	client   *redis.Client
	ttl      time.Duration
	cacheTTL time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewRedisStore builds a store with the given TTLs; zero values fall back
// to the defaults. The clock is injectable for deterministic tests.
func NewRedisStore(client *redis.Client, ttl, cacheTTL time.Duration, now func() time.Time) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultReadCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &RedisStore{
		client:   client,
		ttl:      ttl,
		cacheTTL: cacheTTL,
		now:      now,
		cache:    make(map[string]cacheEntry),
	}
}

// Get loads a context. Expiry is checked lazily on read; an expired
// context is deleted and reported as absent.
func (s *RedisStore) Get(ctx context.Context, key string) (*models.BookingContext, error) {
	now := s.now()

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok {
		if now.Sub(entry.fetched) < s.cacheTTL && !entry.bc.Expired(now) {
			bc := entry.bc
			s.mu.Unlock()
			return &bc, nil
		}
		delete(s.cache, key)
	}
	s.mu.Unlock()

	data, err := s.client.Get(ctx, contextKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bc models.BookingContext
	if err := json.Unmarshal([]byte(data), &bc); err != nil {
		return nil, err
	}
	if bc.Expired(now) {
		_ = s.Clear(ctx, key)
		return nil, nil
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{bc: bc, fetched: now}
	s.mu.Unlock()

	copy := bc
	return &copy, nil
}

// Save writes the whole context through to Redis, refreshing both the
// expiry timestamp and the read cache.
func (s *RedisStore) Save(ctx context.Context, key string, bc *models.BookingContext) error {
	now := s.now()
	bc.ExpiresAt = now.Add(s.ttl)

	b, err := json.Marshal(bc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, contextKeyPrefix+key, b, s.ttl).Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{bc: *bc, fetched: now}
	s.mu.Unlock()
	return nil
}

// Clear deletes a context from Redis and the read cache.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return s.client.Del(ctx, contextKeyPrefix+key).Err()
}
