// internal/service/subscription/gate_test.go
package subscription

import (
	"testing"
	"time"

	"kilofit-service/internal/domain/subscription"
)

func TestCheckRenewable(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	const windowDays = 7

	tests := []struct {
		name      string
		status    subscription.SubscriptionStatus
		endsIn    time.Duration
		renewable bool
	}{
		{"expired is always renewable", subscription.SubscriptionStatusExpired, -48 * time.Hour, true},
		{"active outside window", subscription.SubscriptionStatusActive, 10 * 24 * time.Hour, false},
		{"active inside window", subscription.SubscriptionStatusActive, 5 * 24 * time.Hour, true},
		{"active at window edge", subscription.SubscriptionStatusActive, 7 * 24 * time.Hour, true},
		{"canceled never renewable", subscription.SubscriptionStatusCanceled, 5 * 24 * time.Hour, false},
		{"pending payment never renewable", subscription.SubscriptionStatusPendingPayment, 5 * 24 * time.Hour, false},
		{"scheduled never renewable", subscription.SubscriptionStatusScheduled, 40 * 24 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &subscription.Subscription{
				Status:  tt.status,
				EndDate: now.Add(tt.endsIn),
			}

			got := CheckRenewable(sub, now, windowDays)
			if got.Renewable != tt.renewable {
				t.Errorf("Renewable = %v, want %v (reason: %q)", got.Renewable, tt.renewable, got.Reason)
			}
			if !got.Renewable && got.Reason == "" {
				t.Error("a blocked gate must carry a reason")
			}
		})
	}
}

func TestCheckRenewableDaysRemaining(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := &subscription.Subscription{
		Status:  subscription.SubscriptionStatusActive,
		EndDate: now.Add(10 * 24 * time.Hour),
	}

	got := CheckRenewable(sub, now, 7)
	if got.DaysRemaining != 10 {
		t.Errorf("DaysRemaining = %d, want 10", got.DaysRemaining)
	}
}
