// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive         SubscriptionStatus = "active"
	SubscriptionStatusExpired        SubscriptionStatus = "expired"
	SubscriptionStatusPendingPayment SubscriptionStatus = "pending_payment"
	SubscriptionStatusCanceled       SubscriptionStatus = "canceled"
	SubscriptionStatusScheduled      SubscriptionStatus = "scheduled"
)

type Subscription struct {
	ID        int64  `json:"id" db:"id"`
	Reference string `json:"reference" db:"reference"`

	// Related entities
	ClientID int64 `json:"client_id" db:"client_id"`
	PlanID   int64 `json:"plan_id" db:"plan_id"`

	// RenewedFromID links a renewal to the cycle it replaced.
	RenewedFromID sql.NullInt64 `json:"renewed_from_id,omitempty" db:"renewed_from_id"`

	// Cycle window. Attendance within [StartDate, EndDate] counts toward
	// the reward program for this cycle.
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	// Pricing. FinalPrice overrides the plan's nominal price whenever a
	// discount was applied at purchase or renewal time.
	PlanPrice          float64 `json:"plan_price" db:"plan_price"`
	DiscountPercentage float64 `json:"discount_percentage" db:"discount_percentage"`
	FinalPrice         float64 `json:"final_price" db:"final_price"`

	RenewalCount int `json:"renewal_count" db:"renewal_count"`

	Status             SubscriptionStatus `json:"status" db:"status"`
	CanceledAt         sql.NullTime       `json:"canceled_at,omitempty" db:"canceled_at"`
	CancellationReason sql.NullString     `json:"cancellation_reason,omitempty" db:"cancellation_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DaysRemaining reports whole days until the cycle ends, never negative.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if !s.EndDate.After(now) {
		return 0
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}

type SubscriptionStats struct {
	TotalSubscriptions    int64   `json:"total_subscriptions"`
	ActiveSubscriptions   int64   `json:"active_subscriptions"`
	ExpiredSubscriptions  int64   `json:"expired_subscriptions"`
	CanceledSubscriptions int64   `json:"canceled_subscriptions"`
	TotalRevenue          float64 `json:"total_revenue"`
}
