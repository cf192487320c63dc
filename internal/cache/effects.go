// internal/cache/effects.go
package cache

// Mutation names every write that has cache consequences. The effects table
// below is the single authoritative statement of which read views each
// mutation invalidates; call sites never hand-pick keys.
type Mutation string

const (
	MutationCreateSubscription Mutation = "create_subscription"
	MutationRenewSubscription  Mutation = "renew_subscription"
	MutationCancelSubscription Mutation = "cancel_subscription"
	MutationExpireAll          Mutation = "expire_all"
	MutationActivateAll        Mutation = "activate_all"
	MutationRewardCalculated   Mutation = "reward_calculated"
	MutationRewardApplied      Mutation = "reward_applied"
	MutationRewardConfigUpdate Mutation = "reward_config_update"
)

// Target identifies the records a mutation touched. Bulk mutations leave it
// zero-valued.
type Target struct {
	ClientID       int64
	SubscriptionID int64
	// NewSubscriptionID is set by renewals, which affect both the old and
	// the new cycle's read views.
	NewSubscriptionID int64
}

// view enumerates the cached read views an effect can hit.
type view int

const (
	viewSubDetail view = iota
	viewNewSubDetail
	viewClientList
	viewClientActive
	viewPayStats
	viewRewardsBySub
	viewRewardsAvail
	viewRewardConfig
	viewAllSubscriptions
)

var effects = map[Mutation][]view{
	MutationCreateSubscription: {viewClientList, viewClientActive},
	MutationRenewSubscription:  {viewSubDetail, viewNewSubDetail, viewClientList, viewClientActive},
	MutationCancelSubscription: {viewSubDetail, viewClientList, viewClientActive, viewPayStats},
	MutationExpireAll:          {viewAllSubscriptions},
	MutationActivateAll:        {viewAllSubscriptions},
	MutationRewardCalculated:   {viewRewardsBySub, viewRewardsAvail},
	MutationRewardApplied:      {viewRewardsBySub, viewRewardsAvail},
	MutationRewardConfigUpdate: {viewRewardConfig},
}

// KeysFor resolves the effects table into concrete keys and scan patterns.
// Views whose target id is unset are skipped so partial targets stay
// harmless.
func KeysFor(m Mutation, t Target) (keys []string, patterns []string) {
	for _, v := range effects[m] {
		switch v {
		case viewSubDetail:
			if t.SubscriptionID != 0 {
				keys = append(keys, SubscriptionDetailKey(t.SubscriptionID))
			}
		case viewNewSubDetail:
			if t.NewSubscriptionID != 0 {
				keys = append(keys, SubscriptionDetailKey(t.NewSubscriptionID))
			}
		case viewClientList:
			if t.ClientID != 0 {
				keys = append(keys, ClientSubscriptionListKey(t.ClientID))
			}
		case viewClientActive:
			if t.ClientID != 0 {
				keys = append(keys, ClientActiveSubscriptionKey(t.ClientID))
			}
		case viewPayStats:
			if t.SubscriptionID != 0 {
				keys = append(keys, PaymentStatsKey(t.SubscriptionID))
			}
		case viewRewardsBySub:
			if t.SubscriptionID != 0 {
				keys = append(keys, RewardsBySubscriptionKey(t.SubscriptionID))
			}
		case viewRewardsAvail:
			if t.ClientID != 0 {
				keys = append(keys, AvailableRewardsKey(t.ClientID))
			}
		case viewRewardConfig:
			keys = append(keys, RewardConfigKey())
		case viewAllSubscriptions:
			patterns = append(patterns, SubscriptionPattern)
		}
	}
	return keys, patterns
}
