// internal/cache/store.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the redis-backed read-view cache. Mutation handlers reconcile it
// exclusively through Apply and Seed; the cache is eventually consistent and
// stale reads are tolerated until the next loader run repopulates a key.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{client: client, ttl: ttl, logger: logger}
}

// Get unmarshals the cached value at key into dest.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores value at key with the store's TTL. Cache write failures are
// logged, never propagated: the source of truth already holds the data.
func (s *Store) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// SetTTL is Set with an explicit TTL, used by the reward-config cache.
func (s *Store) SetTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Apply runs the invalidation effects registered for the mutation. Failures
// are logged and swallowed; a missed invalidation heals on key expiry.
func (s *Store) Apply(ctx context.Context, m Mutation, t Target) {
	keys, patterns := KeysFor(m, t)

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn("cache invalidation failed",
				zap.String("mutation", string(m)),
				zap.Strings("keys", keys),
				zap.Error(err),
			)
		}
	}

	for _, pattern := range patterns {
		s.deletePattern(ctx, m, pattern)
	}
}

// Seed writes a freshly-created record into its detail slot so the first
// read after a create skips the loader.
func (s *Store) Seed(ctx context.Context, key string, value interface{}) {
	s.Set(ctx, key, value)
}

func (s *Store) deletePattern(ctx context.Context, m Mutation, pattern string) {
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("cache pattern scan failed",
			zap.String("mutation", string(m)),
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache pattern invalidation failed",
			zap.String("mutation", string(m)),
			zap.String("pattern", pattern),
			zap.Error(err),
		)
	}
}
