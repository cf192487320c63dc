// internal/cache/flags.go
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// FlagStore holds session-scoped one-shot flags such as "expiry reminder
// already sent for this subscription". It is injected wherever once-only
// behavior is needed instead of being an ambient global.
type FlagStore struct {
	client *redis.Client
}

func NewFlagStore(client *redis.Client) *FlagStore {
	return &FlagStore{client: client}
}

// IsSet reports whether the flag exists. Lookup errors count as unset so a
// redis hiccup degrades to a repeated reminder, never a missed one.
func (f *FlagStore) IsSet(ctx context.Context, key string) bool {
	n, err := f.client.Exists(ctx, key).Result()
	return err == nil && n > 0
}

func (f *FlagStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	return f.client.Set(ctx, key, "1", ttl).Err()
}

func (f *FlagStore) Clear(ctx context.Context, key string) error {
	return f.client.Del(ctx, key).Err()
}
