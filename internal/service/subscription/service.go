// internal/service/subscription/service.go
package subscription

import (
	"context"
	"fmt"
	"time"

	"kilofit-service/internal/cache"
	"kilofit-service/internal/domain/client"
	"kilofit-service/internal/domain/payment"
	"kilofit-service/internal/domain/plan"
	"kilofit-service/internal/domain/reward"
	"kilofit-service/internal/domain/subscription"
	"kilofit-service/internal/notify"
	xerrors "kilofit-service/internal/pkg/errors"
	"kilofit-service/internal/pkg/ref"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SubscriptionStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error
	FindByID(ctx context.Context, id int64) (*subscription.Subscription, error)
	FindActiveByClient(ctx context.Context, clientID int64) (*subscription.Subscription, error)
	ListByClient(ctx context.Context, clientID int64) ([]subscription.Subscription, error)
	List(ctx context.Context, filters *subscription.SubscriptionListFilters) ([]subscription.Subscription, int64, error)
	MarkExpiredWithTx(ctx context.Context, tx pgx.Tx, id int64) error
	Cancel(ctx context.Context, id int64, reason string) error
	ExpireAllOverdue(ctx context.Context, now time.Time) (int64, error)
	ActivateAllDue(ctx context.Context, now time.Time) (int64, error)
	GetExpiring(ctx context.Context, days int) ([]subscription.Subscription, error)
	GetStats(ctx context.Context) (*subscription.SubscriptionStats, error)
}

type PlanStore interface {
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type ClientStore interface {
	FindByID(ctx context.Context, id int64) (*client.Client, error)
}

type PaymentStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, p *payment.Payment) error
	GetStats(ctx context.Context, subscriptionID int64) (*payment.Stats, error)
}

// RewardApplier is the reward service's apply operation, consumed by the
// renewal workflow as its secondary step.
type RewardApplier interface {
	Apply(ctx context.Context, rewardID int64, req *reward.ApplyRewardRequest) (*reward.Reward, error)
}

type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// Locker guards non-idempotent workflows against duplicate submission.
type Locker interface {
	Acquire(ctx context.Context, subscriptionID int64) (bool, error)
	Release(ctx context.Context, subscriptionID int64)
}

type CacheSync interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{})
	Seed(ctx context.Context, key string, value interface{})
	Apply(ctx context.Context, m cache.Mutation, t cache.Target)
}

type SubscriptionService struct {
	db               TxBeginner
	subscriptionRepo SubscriptionStore
	planRepo         PlanStore
	clientRepo       ClientStore
	paymentRepo      PaymentStore
	rewards          RewardApplier
	cache            CacheSync
	lock             Locker
	notifier         notify.Notifier
	windowDays       int
	logger           *zap.Logger
}

func NewSubscriptionService(
	db TxBeginner,
	subscriptionRepo SubscriptionStore,
	planRepo PlanStore,
	clientRepo ClientStore,
	paymentRepo PaymentStore,
	rewards RewardApplier,
	cacheStore CacheSync,
	lock Locker,
	notifier notify.Notifier,
	windowDays int,
	logger *zap.Logger,
) *SubscriptionService {
	if windowDays <= 0 {
		windowDays = 7
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &SubscriptionService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		clientRepo:       clientRepo,
		paymentRepo:      paymentRepo,
		rewards:          rewards,
		cache:            cacheStore,
		lock:             lock,
		notifier:         notifier,
		windowDays:       windowDays,
		logger:           logger,
	}
}

// Create starts a new subscription for a client and records its first payment
// in the same transaction. A future start date creates it in scheduled status.
func (s *SubscriptionService) Create(ctx context.Context, clientID int64, req *subscription.CreateSubscriptionRequest) (*subscription.Subscription, error) {
	cl, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	pl, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}
	if pl.Status != plan.PlanStatusActive {
		return nil, xerrors.NewValidation("plan_id", "plan is not active")
	}

	now := time.Now()
	start := now
	if req.StartDate != "" {
		start, err = time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return nil, xerrors.NewValidation("start_date", "start date must be RFC3339")
		}
	}

	status := subscription.SubscriptionStatusActive
	if start.After(now) {
		status = subscription.SubscriptionStatusScheduled
	}

	sub := &subscription.Subscription{
		Reference:          ref.New("SUB"),
		ClientID:           cl.ID,
		PlanID:             pl.ID,
		StartDate:          start,
		EndDate:            pl.PeriodEnd(start),
		PlanPrice:          pl.Price,
		DiscountPercentage: req.DiscountPercentage,
		FinalPrice:         discounted(pl.Price, req.DiscountPercentage),
		Status:             status,
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.subscriptionRepo.CreateWithTx(ctx, tx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	pay := &payment.Payment{
		Reference:      ref.New("PAY"),
		ClientID:       cl.ID,
		SubscriptionID: sub.ID,
		Amount:         sub.FinalPrice,
		Method:         paymentMethod(req.PaymentMethod),
		PaidAt:         now,
	}
	if err := s.paymentRepo.CreateWithTx(ctx, tx, pay); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Apply(ctx, cache.MutationCreateSubscription, cache.Target{ClientID: cl.ID})
	s.cache.Seed(ctx, cache.SubscriptionDetailKey(sub.ID), sub)

	s.logger.Info("subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("client_id", cl.ID),
		zap.Int64("plan_id", pl.ID),
		zap.String("status", string(sub.Status)),
	)

	return sub, nil
}

// Get retrieves one subscription, cache-aside.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*subscription.Subscription, error) {
	key := cache.SubscriptionDetailKey(id)

	var cached subscription.Subscription
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("subscription not found: %w", err)
	}

	s.cache.Set(ctx, key, sub)
	return sub, nil
}

// ListByClient returns a client's full subscription history, cache-aside.
func (s *SubscriptionService) ListByClient(ctx context.Context, clientID int64) ([]subscription.Subscription, error) {
	key := cache.ClientSubscriptionListKey(clientID)

	var cached []subscription.Subscription
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	subs, err := s.subscriptionRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	s.cache.Set(ctx, key, subs)
	return subs, nil
}

// ActiveByClient returns the client's current active subscription,
// cache-aside.
func (s *SubscriptionService) ActiveByClient(ctx context.Context, clientID int64) (*subscription.Subscription, error) {
	key := cache.ClientActiveSubscriptionKey(clientID)

	var cached subscription.Subscription
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	sub, err := s.subscriptionRepo.FindActiveByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, sub)
	return sub, nil
}

// List retrieves subscriptions across clients with filters and paging.
func (s *SubscriptionService) List(ctx context.Context, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error) {
	subs, total, err := s.subscriptionRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &subscription.SubscriptionListResponse{
		Subscriptions: subs,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

// CheckRenewableByID loads the subscription and applies the renewal gate.
func (s *SubscriptionService) CheckRenewableByID(ctx context.Context, id int64) (*subscription.Renewability, error) {
	sub, err := s.subscriptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("subscription not found: %w", err)
	}

	r := CheckRenewable(sub, time.Now(), s.windowDays)
	return &r, nil
}

// Cancel cancels a subscription and invalidates every read view it backs,
// including its payment stats.
func (s *SubscriptionService) Cancel(ctx context.Context, id int64, req *subscription.CancelSubscriptionRequest) error {
	sub, err := s.subscriptionRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("subscription not found: %w", err)
	}

	if err := s.subscriptionRepo.Cancel(ctx, id, req.Reason); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}

	s.cache.Apply(ctx, cache.MutationCancelSubscription, cache.Target{
		ClientID:       sub.ClientID,
		SubscriptionID: id,
	})

	s.notifier.Toast(notify.Toast{
		Title:   "Subscription canceled",
		Message: fmt.Sprintf("Subscription %s was canceled", sub.Reference),
		Type:    notify.TypeInfo,
	})

	s.logger.Info("subscription canceled",
		zap.Int64("subscription_id", id),
		zap.String("reason", req.Reason),
	)

	return nil
}

// ExpireAll flips every overdue active subscription to expired. Bulk status
// changes cannot know which cached entries they touched, so the whole
// subscription keyspace is wiped even when the store reported an error: the
// rows may have changed before the failure.
func (s *SubscriptionService) ExpireAll(ctx context.Context) (*subscription.BulkStatusResult, error) {
	count, err := s.subscriptionRepo.ExpireAllOverdue(ctx, time.Now())

	s.cache.Apply(ctx, cache.MutationExpireAll, cache.Target{})

	if err != nil {
		return nil, fmt.Errorf("failed to expire subscriptions: %w", err)
	}

	s.logger.Info("expired overdue subscriptions", zap.Int64("count", count))
	return &subscription.BulkStatusResult{ExpiredCount: count}, nil
}

// ActivateAll flips scheduled subscriptions whose start date has arrived.
func (s *SubscriptionService) ActivateAll(ctx context.Context) (*subscription.BulkStatusResult, error) {
	count, err := s.subscriptionRepo.ActivateAllDue(ctx, time.Now())

	s.cache.Apply(ctx, cache.MutationActivateAll, cache.Target{})

	if err != nil {
		return nil, fmt.Errorf("failed to activate subscriptions: %w", err)
	}

	s.logger.Info("activated due subscriptions", zap.Int64("count", count))
	return &subscription.BulkStatusResult{ActivatedCount: count}, nil
}

// GetExpiring lists active subscriptions ending within days.
func (s *SubscriptionService) GetExpiring(ctx context.Context, days int) ([]subscription.Subscription, error) {
	if days <= 0 {
		days = s.windowDays
	}
	return s.subscriptionRepo.GetExpiring(ctx, days)
}

// Stats aggregates subscription counts and revenue.
func (s *SubscriptionService) Stats(ctx context.Context) (*subscription.SubscriptionStats, error) {
	return s.subscriptionRepo.GetStats(ctx)
}

// PaymentStats returns the payment aggregate for one subscription,
// cache-aside.
func (s *SubscriptionService) PaymentStats(ctx context.Context, subscriptionID int64) (*payment.Stats, error) {
	key := cache.PaymentStatsKey(subscriptionID)

	var cached payment.Stats
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.paymentRepo.GetStats(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment stats: %w", err)
	}

	s.cache.Set(ctx, key, stats)
	return stats, nil
}

func discounted(price, discountPercentage float64) float64 {
	if discountPercentage <= 0 || discountPercentage > 100 {
		return price
	}
	return price * (1 - discountPercentage/100)
}

func paymentMethod(method string) string {
	if method == "" {
		return "cash"
	}
	return method
}
