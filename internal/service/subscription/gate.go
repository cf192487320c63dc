// internal/service/subscription/gate.go
package subscription

import (
	"fmt"
	"time"

	"kilofit-service/internal/domain/subscription"
)

// CheckRenewable decides whether a subscription may enter the renewal
// workflow right now. Expired cycles are always renewable. Active cycles are
// renewable only inside the renewal window; everything else is blocked with a
// reason the dashboard shows next to the disabled confirm control.
func CheckRenewable(sub *subscription.Subscription, now time.Time, windowDays int) subscription.Renewability {
	days := sub.DaysRemaining(now)

	switch sub.Status {
	case subscription.SubscriptionStatusExpired:
		return subscription.Renewability{Renewable: true}

	case subscription.SubscriptionStatusActive:
		if days <= windowDays {
			return subscription.Renewability{Renewable: true, DaysRemaining: days}
		}
		return subscription.Renewability{
			Renewable:     false,
			Reason:        fmt.Sprintf("subscription has %d days remaining; renewal opens %d days before expiry", days, windowDays),
			DaysRemaining: days,
		}

	case subscription.SubscriptionStatusCanceled:
		return subscription.Renewability{
			Renewable:     false,
			Reason:        "canceled subscriptions cannot be renewed",
			DaysRemaining: days,
		}

	case subscription.SubscriptionStatusPendingPayment:
		return subscription.Renewability{
			Renewable:     false,
			Reason:        "subscription has an unpaid cycle",
			DaysRemaining: days,
		}

	case subscription.SubscriptionStatusScheduled:
		return subscription.Renewability{
			Renewable:     false,
			Reason:        "subscription has not started yet",
			DaysRemaining: days,
		}

	default:
		return subscription.Renewability{
			Renewable:     false,
			Reason:        fmt.Sprintf("subscriptions in status %q cannot be renewed", sub.Status),
			DaysRemaining: days,
		}
	}
}
