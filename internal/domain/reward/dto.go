// internal/domain/reward/dto.go
package reward

type ApplyRewardRequest struct {
	SubscriptionID     int64   `json:"subscription_id" binding:"required"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"required,gt=0,max=100"`
}

type UpdateConfigRequest struct {
	AttendanceThreshold *int     `json:"attendance_threshold" binding:"omitempty,min=1"`
	DiscountPercentage  *float64 `json:"discount_percentage" binding:"omitempty,gt=0,max=100"`
	ExpirationDays      *int     `json:"expiration_days" binding:"omitempty,min=1"`
	EligiblePlanUnits   []string `json:"eligible_plan_units"`
}

// CalculationResult is returned by the calculate endpoint. Exactly one of the
// flags describes the outcome; Reward is set only when a pending reward now
// exists for the cycle.
type CalculationResult struct {
	Outcome         string  `json:"outcome"` // calculated | not_eligible | not_applicable | no_data | already_applied
	Reward          *Reward `json:"reward,omitempty"`
	AttendanceCount int     `json:"attendance_count"`
	Percentage      float64 `json:"percentage"`
	Remaining       int     `json:"remaining"`
}
