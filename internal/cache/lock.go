// internal/cache/lock.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RenewalLock guards against duplicate renewal submissions. Renewals are not
// idempotent, so while one is in flight for a subscription every further
// attempt must be a no-op.
type RenewalLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRenewalLock(client *redis.Client) *RenewalLock {
	return &RenewalLock{client: client, ttl: 30 * time.Second}
}

func (l *RenewalLock) key(subscriptionID int64) string {
	return fmt.Sprintf("lock:renewal:sub:%d", subscriptionID)
}

// Acquire returns true when this caller owns the in-flight slot. The TTL
// bounds lock lifetime if a release is lost.
func (l *RenewalLock) Acquire(ctx context.Context, subscriptionID int64) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(subscriptionID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire renewal lock: %w", err)
	}
	return ok, nil
}

func (l *RenewalLock) Release(ctx context.Context, subscriptionID int64) {
	l.client.Del(ctx, l.key(subscriptionID))
}
