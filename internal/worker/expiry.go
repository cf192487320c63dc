// internal/worker/expiry.go
package worker

import (
	"context"
	"fmt"
	"time"

	"kilofit-service/internal/domain/subscription"
	"kilofit-service/internal/notify"

	"go.uber.org/zap"
)

// SubscriptionSweeper is the slice of the subscription service the worker
// drives. Going through the service keeps the cache effects applied.
type SubscriptionSweeper interface {
	ExpireAll(ctx context.Context) (*subscription.BulkStatusResult, error)
	ActivateAll(ctx context.Context) (*subscription.BulkStatusResult, error)
	GetExpiring(ctx context.Context, days int) ([]subscription.Subscription, error)
}

type RewardExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Flags gates once-only reminders.
type Flags interface {
	IsSet(ctx context.Context, key string) bool
	Set(ctx context.Context, key string, ttl time.Duration) error
}

// ExpiryWorker periodically sweeps subscription and reward statuses and
// reminds the dashboard about cycles ending soon. Each reminder fires once
// per subscription per day.
type ExpiryWorker struct {
	subscriptions SubscriptionSweeper
	rewards       RewardExpirer
	flags         Flags
	notifier      notify.Notifier
	interval      time.Duration
	windowDays    int
	logger        *zap.Logger
}

func NewExpiryWorker(
	subscriptions SubscriptionSweeper,
	rewards RewardExpirer,
	flags Flags,
	notifier notify.Notifier,
	interval time.Duration,
	windowDays int,
	logger *zap.Logger,
) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &ExpiryWorker{
		subscriptions: subscriptions,
		rewards:       rewards,
		flags:         flags,
		notifier:      notifier,
		interval:      interval,
		windowDays:    windowDays,
		logger:        logger,
	}
}

// Run sweeps immediately, then on every tick until ctx is canceled.
func (w *ExpiryWorker) Run(ctx context.Context) {
	w.logger.Info("expiry worker started", zap.Duration("interval", w.interval))

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	if _, err := w.subscriptions.ExpireAll(ctx); err != nil {
		w.logger.Error("subscription expiry sweep failed", zap.Error(err))
	}

	if _, err := w.subscriptions.ActivateAll(ctx); err != nil {
		w.logger.Error("subscription activation sweep failed", zap.Error(err))
	}

	if count, err := w.rewards.ExpireOverdue(ctx, time.Now()); err != nil {
		w.logger.Error("reward expiry sweep failed", zap.Error(err))
	} else if count > 0 {
		w.logger.Info("expired overdue rewards", zap.Int64("count", count))
	}

	w.remindExpiring(ctx)
}

func (w *ExpiryWorker) remindExpiring(ctx context.Context) {
	subs, err := w.subscriptions.GetExpiring(ctx, w.windowDays)
	if err != nil {
		w.logger.Error("failed to fetch expiring subscriptions", zap.Error(err))
		return
	}

	now := time.Now()
	for i := range subs {
		sub := &subs[i]
		key := fmt.Sprintf("flag:expiry_reminder:sub:%d:%s", sub.ID, now.Format("2006-01-02"))
		if w.flags.IsSet(ctx, key) {
			continue
		}

		days := sub.DaysRemaining(now)
		w.notifier.Toast(notify.Toast{
			Title:   "Subscription expiring",
			Message: fmt.Sprintf("Subscription %s ends in %d days", sub.Reference, days),
			Type:    notify.TypeInfo,
		})

		if err := w.flags.Set(ctx, key, 48*time.Hour); err != nil {
			w.logger.Warn("failed to set reminder flag", zap.Int64("subscription_id", sub.ID), zap.Error(err))
		}
	}
}
