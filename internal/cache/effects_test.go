// internal/cache/effects_test.go
package cache

import (
	"sort"
	"testing"
)

func sorted(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKeysForCancelSubscription(t *testing.T) {
	keys, patterns := KeysFor(MutationCancelSubscription, Target{ClientID: 7, SubscriptionID: 42})

	want := sorted([]string{
		SubscriptionDetailKey(42),
		ClientSubscriptionListKey(7),
		ClientActiveSubscriptionKey(7),
		PaymentStatsKey(42),
	})
	if !equal(sorted(keys), want) {
		t.Errorf("keys = %v, want %v", sorted(keys), want)
	}
	if len(patterns) != 0 {
		t.Errorf("patterns = %v, want none", patterns)
	}
}

func TestKeysForRenewTouchesBothCycles(t *testing.T) {
	keys, _ := KeysFor(MutationRenewSubscription, Target{
		ClientID:          7,
		SubscriptionID:    42,
		NewSubscriptionID: 43,
	})

	want := sorted([]string{
		SubscriptionDetailKey(42),
		SubscriptionDetailKey(43),
		ClientSubscriptionListKey(7),
		ClientActiveSubscriptionKey(7),
	})
	if !equal(sorted(keys), want) {
		t.Errorf("keys = %v, want %v", sorted(keys), want)
	}
}

func TestKeysForBulkMutationsWipeTheDomain(t *testing.T) {
	for _, m := range []Mutation{MutationExpireAll, MutationActivateAll} {
		keys, patterns := KeysFor(m, Target{})
		if len(keys) != 0 {
			t.Errorf("%s: keys = %v, want none", m, keys)
		}
		if len(patterns) != 1 || patterns[0] != SubscriptionPattern {
			t.Errorf("%s: patterns = %v, want [%s]", m, patterns, SubscriptionPattern)
		}
	}
}

func TestKeysForRewardMutations(t *testing.T) {
	keys, _ := KeysFor(MutationRewardApplied, Target{ClientID: 7, SubscriptionID: 42})

	want := sorted([]string{
		RewardsBySubscriptionKey(42),
		AvailableRewardsKey(7),
	})
	if !equal(sorted(keys), want) {
		t.Errorf("keys = %v, want %v", sorted(keys), want)
	}

	keys, _ = KeysFor(MutationRewardConfigUpdate, Target{})
	if len(keys) != 1 || keys[0] != RewardConfigKey() {
		t.Errorf("config update keys = %v, want [%s]", keys, RewardConfigKey())
	}
}

func TestKeysForSkipsUnsetIDs(t *testing.T) {
	// A renewal target without the new cycle ID invalidates everything it
	// can name and silently skips the rest.
	keys, _ := KeysFor(MutationRenewSubscription, Target{ClientID: 7, SubscriptionID: 42})
	for _, k := range keys {
		if k == SubscriptionDetailKey(0) {
			t.Errorf("keys contain a zero-id key: %v", keys)
		}
	}
	if len(keys) != 3 {
		t.Errorf("keys = %v, want 3 entries", keys)
	}
}
