// internal/service/subscription/renewal.go
package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"kilofit-service/internal/cache"
	"kilofit-service/internal/domain/payment"
	"kilofit-service/internal/domain/reward"
	"kilofit-service/internal/domain/subscription"
	"kilofit-service/internal/notify"
	xerrors "kilofit-service/internal/pkg/errors"
	"kilofit-service/internal/pkg/ref"

	"go.uber.org/zap"
)

// Renew runs the renewal workflow: gate, create the successor cycle, expire
// the old one, record the payment, then consume the selected reward.
//
// Ordering is strict: the reward is marked applied only after the renewal has
// committed. The two steps fail asymmetrically on purpose. If the renewal
// fails nothing else runs. If the renewal commits and the reward step fails,
// the renewal stands and the outcome carries a warning; re-running the whole
// workflow to retry the reward would double-charge the client.
func (s *SubscriptionService) Renew(ctx context.Context, id int64, req *subscription.RenewSubscriptionRequest) (*subscription.RenewalOutcome, error) {
	ok, err := s.lock.Acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire renewal lock: %w", err)
	}
	if !ok {
		// A submission is already in flight; this one is a no-op.
		return nil, fmt.Errorf("renewal already in progress: %w", xerrors.ErrConflict)
	}
	defer s.lock.Release(ctx, id)

	sub, err := s.subscriptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("subscription not found: %w", err)
	}

	now := time.Now()
	if gate := CheckRenewable(sub, now, s.windowDays); !gate.Renewable {
		return nil, xerrors.NewValidation("subscription_id", gate.Reason)
	}

	planID := sub.PlanID
	if req.PlanID != nil {
		planID = *req.PlanID
	}
	pl, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}

	// The discount arrives as the raw string held for the selected reward; a
	// value that does not parse means no discount.
	discount := parseDiscount(req.DiscountPercentage)

	// A still-running cycle keeps its remaining days: the successor starts
	// where the old cycle ends.
	start := now
	expireOld := true
	if sub.Status == subscription.SubscriptionStatusActive && sub.EndDate.After(now) {
		start = sub.EndDate
		expireOld = false
	}

	status := subscription.SubscriptionStatusActive
	if start.After(now) {
		status = subscription.SubscriptionStatusScheduled
	}

	next := &subscription.Subscription{
		Reference:          ref.New("SUB"),
		ClientID:           sub.ClientID,
		PlanID:             pl.ID,
		RenewedFromID:      nullInt64(sub.ID),
		StartDate:          start,
		EndDate:            pl.PeriodEnd(start),
		PlanPrice:          pl.Price,
		DiscountPercentage: discount,
		FinalPrice:         discounted(pl.Price, discount),
		RenewalCount:       sub.RenewalCount + 1,
		Status:             status,
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.subscriptionRepo.CreateWithTx(ctx, tx, next); err != nil {
		return nil, fmt.Errorf("failed to create renewal subscription: %w", err)
	}

	if expireOld && sub.Status == subscription.SubscriptionStatusActive {
		if err := s.subscriptionRepo.MarkExpiredWithTx(ctx, tx, sub.ID); err != nil {
			return nil, fmt.Errorf("failed to expire previous cycle: %w", err)
		}
	}

	pay := &payment.Payment{
		Reference:      ref.New("PAY"),
		ClientID:       sub.ClientID,
		SubscriptionID: next.ID,
		Amount:         next.FinalPrice,
		Method:         paymentMethod(req.PaymentMethod),
		PaidAt:         now,
	}
	if err := s.paymentRepo.CreateWithTx(ctx, tx, pay); err != nil {
		return nil, fmt.Errorf("failed to record renewal payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit renewal: %w", err)
	}

	outcome := &subscription.RenewalOutcome{Subscription: next}

	// Secondary step. The renewal above is committed and is never rolled
	// back from here on.
	if req.RewardID != nil && discount > 0 {
		_, err := s.rewards.Apply(ctx, *req.RewardID, &reward.ApplyRewardRequest{
			SubscriptionID:     next.ID,
			DiscountPercentage: discount,
		})
		if err != nil {
			outcome.RewardWarning = "subscription renewed, but the reward could not be marked as applied; it remains pending"
			s.logger.Warn("reward apply failed after renewal commit",
				zap.Int64("subscription_id", id),
				zap.Int64("new_subscription_id", next.ID),
				zap.Int64("reward_id", *req.RewardID),
				zap.Error(err),
			)
		} else {
			outcome.RewardApplied = true
		}
	}

	s.cache.Apply(ctx, cache.MutationRenewSubscription, cache.Target{
		ClientID:          sub.ClientID,
		SubscriptionID:    sub.ID,
		NewSubscriptionID: next.ID,
	})
	s.cache.Seed(ctx, cache.SubscriptionDetailKey(next.ID), next)

	toast := notify.Toast{
		Title:   "Subscription renewed",
		Message: fmt.Sprintf("Subscription %s renewed as %s", sub.Reference, next.Reference),
		Type:    notify.TypeSuccess,
	}
	if outcome.RewardWarning != "" {
		toast.Message = toast.Message + "; reward could not be applied"
		toast.Type = notify.TypeError
	}
	s.notifier.Toast(toast)

	s.logger.Info("subscription renewed",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("new_subscription_id", next.ID),
		zap.Float64("discount_percentage", discount),
		zap.Bool("reward_applied", outcome.RewardApplied),
	)

	return outcome, nil
}

// parseDiscount parses the raw discount string; anything unusable means no
// discount rather than a failed renewal.
func parseDiscount(raw string) float64 {
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d <= 0 || d > 100 {
		return 0
	}
	return d
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}
