// internal/cache/keys.go
package cache

import "fmt"

// Key builders for every cached read view. All cache writes and
// invalidations go through these; nothing else is allowed to touch the
// keyspace directly.

func SubscriptionDetailKey(subscriptionID int64) string {
	return fmt.Sprintf("cache:sub:detail:%d", subscriptionID)
}

func ClientSubscriptionListKey(clientID int64) string {
	return fmt.Sprintf("cache:sub:list:client:%d", clientID)
}

func ClientActiveSubscriptionKey(clientID int64) string {
	return fmt.Sprintf("cache:sub:active:client:%d", clientID)
}

func PaymentStatsKey(subscriptionID int64) string {
	return fmt.Sprintf("cache:payment:stats:sub:%d", subscriptionID)
}

func RewardsBySubscriptionKey(subscriptionID int64) string {
	return fmt.Sprintf("cache:reward:sub:%d", subscriptionID)
}

func AvailableRewardsKey(clientID int64) string {
	return fmt.Sprintf("cache:reward:available:client:%d", clientID)
}

func RewardConfigKey() string {
	return "cache:reward:config"
}

// SubscriptionPattern matches every subscription read view. Bulk status
// mutations cannot know which entries they touched, so they wipe the whole
// domain.
const SubscriptionPattern = "cache:sub:*"
