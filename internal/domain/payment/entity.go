// internal/domain/payment/entity.go
package payment

import "time"

type Payment struct {
	ID             int64     `json:"id" db:"id"`
	Reference      string    `json:"reference" db:"reference"`
	ClientID       int64     `json:"client_id" db:"client_id"`
	SubscriptionID int64     `json:"subscription_id" db:"subscription_id"`
	Amount         float64   `json:"amount" db:"amount"`
	Method         string    `json:"method" db:"method"`
	PaidAt         time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Stats aggregates payments for one subscription; it backs the payment-stats
// read view invalidated when the subscription is canceled.
type Stats struct {
	SubscriptionID int64      `json:"subscription_id"`
	PaymentCount   int64      `json:"payment_count"`
	TotalPaid      float64    `json:"total_paid"`
	LastPaidAt     *time.Time `json:"last_paid_at,omitempty"`
}

type PaymentListFilters struct {
	ClientID       *int64 `form:"client_id"`
	SubscriptionID *int64 `form:"subscription_id"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
}
