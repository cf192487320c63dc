// internal/domain/subscription/dto.go
package subscription

type CreateSubscriptionRequest struct {
	PlanID int64 `json:"plan_id" binding:"required"`

	// StartDate is RFC3339; empty means start now. A future date creates
	// the subscription in scheduled status.
	StartDate string `json:"start_date"`

	DiscountPercentage float64 `json:"discount_percentage" binding:"omitempty,min=0,max=100"`

	// Payment details recorded alongside the subscription
	PaymentMethod string `json:"payment_method"`
}

// RenewSubscriptionRequest drives the renewal workflow. RewardID selects a
// pending reward to consume; DiscountPercentage arrives as the raw string the
// dashboard holds for that reward and is parsed server-side (a non-numeric
// value means no discount).
type RenewSubscriptionRequest struct {
	PlanID             *int64 `json:"plan_id"`
	RewardID           *int64 `json:"reward_id"`
	DiscountPercentage string `json:"discount_percentage"`
	PaymentMethod      string `json:"payment_method"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

type SubscriptionListFilters struct {
	Status     *SubscriptionStatus `form:"status"`
	PlanID     *int64              `form:"plan_id"`
	IsExpiring bool                `form:"is_expiring"`
	Page       int                 `form:"page"`
	PageSize   int                 `form:"page_size"`
	SortBy     string              `form:"sort_by"`
	SortOrder  string              `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type SubscriptionListResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
	Total         int64          `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
}

// Renewability is the gate result for the renewal workflow. When Renewable is
// false, Reason carries the blocking message shown next to the disabled
// confirm control.
type Renewability struct {
	Renewable     bool   `json:"renewable"`
	Reason        string `json:"reason,omitempty"`
	DaysRemaining int    `json:"days_remaining"`
}

// RenewalOutcome is the single user-facing result of the renewal workflow.
// RewardWarning is set when the renewal succeeded but marking the reward as
// applied failed; the renewal is never rolled back in that case.
type RenewalOutcome struct {
	Subscription  *Subscription `json:"subscription"`
	RewardApplied bool          `json:"reward_applied"`
	RewardWarning string        `json:"reward_warning,omitempty"`
}

type BulkStatusResult struct {
	ExpiredCount   int64 `json:"expired_count,omitempty"`
	ActivatedCount int64 `json:"activated_count,omitempty"`
}
