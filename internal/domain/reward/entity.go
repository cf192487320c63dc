// internal/domain/reward/entity.go
package reward

import (
	"database/sql"
	"time"
)

type RewardStatus string

const (
	// RewardStatusPending marks a calculated, unused, unexpired reward.
	RewardStatusPending RewardStatus = "pending"
	// RewardStatusApplied marks a reward consumed by a renewal. Applied
	// rewards are immutable evidence of a granted discount.
	RewardStatusApplied RewardStatus = "applied"
	RewardStatusExpired RewardStatus = "expired"
)

type Reward struct {
	ID        int64  `json:"id" db:"id"`
	Reference string `json:"reference" db:"reference"`

	ClientID int64 `json:"client_id" db:"client_id"`

	// SubscriptionID is the cycle that earned the reward.
	SubscriptionID int64 `json:"subscription_id" db:"subscription_id"`

	// AppliedSubscriptionID is the renewal that consumed it.
	AppliedSubscriptionID sql.NullInt64 `json:"applied_subscription_id,omitempty" db:"applied_subscription_id"`

	DiscountPercentage float64 `json:"discount_percentage" db:"discount_percentage"`
	AttendanceCount    int     `json:"attendance_count" db:"attendance_count"`

	Status    RewardStatus `json:"status" db:"status"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
	AppliedAt sql.NullTime `json:"applied_at,omitempty" db:"applied_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Usable reports whether the reward can still be consumed by a renewal.
func (r *Reward) Usable(now time.Time) bool {
	return r.Status == RewardStatusPending && now.Before(r.ExpiresAt)
}

// Config is the process-wide reward program configuration. It is fetched from
// storage, cached for about an hour, and replaced by Defaults whenever the
// fetch fails: the workflow must never block on this value being absent.
type Config struct {
	AttendanceThreshold int      `json:"attendance_threshold"`
	DiscountPercentage  float64  `json:"discount_percentage"`
	ExpirationDays      int      `json:"expiration_days"`
	EligiblePlanUnits   []string `json:"eligible_plan_units"`
}

// Defaults is the fallback configuration used when the stored config cannot
// be fetched.
func Defaults() Config {
	return Config{
		AttendanceThreshold: 12,
		DiscountPercentage:  10,
		ExpirationDays:      30,
		EligiblePlanUnits:   []string{"month"},
	}
}
