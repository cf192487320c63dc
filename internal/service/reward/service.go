// internal/service/reward/service.go
package reward

import (
	"context"
	"fmt"
	"time"

	"kilofit-service/internal/cache"
	"kilofit-service/internal/domain/attendance"
	"kilofit-service/internal/domain/plan"
	"kilofit-service/internal/domain/reward"
	"kilofit-service/internal/domain/subscription"
	xerrors "kilofit-service/internal/pkg/errors"
	"kilofit-service/internal/pkg/ref"

	"go.uber.org/zap"
)

type RewardStore interface {
	Create(ctx context.Context, rw *reward.Reward) error
	FindByID(ctx context.Context, id int64) (*reward.Reward, error)
	ListBySubscription(ctx context.Context, subscriptionID int64) ([]reward.Reward, error)
	ListAvailableByClient(ctx context.Context, clientID int64) ([]reward.Reward, error)
	MarkApplied(ctx context.Context, id, appliedSubscriptionID int64, discount float64) error
	GetConfig(ctx context.Context) (*reward.Config, error)
	UpdateConfig(ctx context.Context, cfg *reward.Config) error
}

type SubscriptionStore interface {
	FindByID(ctx context.Context, id int64) (*subscription.Subscription, error)
}

type PlanStore interface {
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type AttendanceStore interface {
	ListInRange(ctx context.Context, clientID int64, from, to time.Time) ([]attendance.Attendance, error)
}

// CacheSync is the slice of the cache layer the reward service needs.
type CacheSync interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{})
	SetTTL(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Apply(ctx context.Context, m cache.Mutation, t cache.Target)
}

type RewardService struct {
	rewardRepo       RewardStore
	subscriptionRepo SubscriptionStore
	planRepo         PlanStore
	attendanceRepo   AttendanceStore
	cache            CacheSync
	configTTL        time.Duration
	logger           *zap.Logger
}

func NewRewardService(
	rewardRepo RewardStore,
	subscriptionRepo SubscriptionStore,
	planRepo PlanStore,
	attendanceRepo AttendanceStore,
	cacheStore CacheSync,
	configTTL time.Duration,
	logger *zap.Logger,
) *RewardService {
	if configTTL <= 0 {
		configTTL = time.Hour
	}
	return &RewardService{
		rewardRepo:       rewardRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		attendanceRepo:   attendanceRepo,
		cache:            cacheStore,
		configTTL:        configTTL,
		logger:           logger,
	}
}

// Config returns the reward program configuration. It never fails: a cache
// miss falls through to storage, and a storage failure falls back to the
// hardcoded defaults so callers never block on this value.
func (s *RewardService) Config(ctx context.Context) reward.Config {
	var cfg reward.Config
	if err := s.cache.Get(ctx, cache.RewardConfigKey(), &cfg); err == nil {
		return cfg
	}

	stored, err := s.rewardRepo.GetConfig(ctx)
	if err != nil {
		s.logger.Warn("reward config fetch failed, using defaults", zap.Error(err))
		return reward.Defaults()
	}

	s.cache.SetTTL(ctx, cache.RewardConfigKey(), stored, s.configTTL)
	return *stored
}

// UpdateConfig stores a new configuration revision and drops the cached copy.
func (s *RewardService) UpdateConfig(ctx context.Context, req *reward.UpdateConfigRequest) (reward.Config, error) {
	cfg := s.Config(ctx)

	if req.AttendanceThreshold != nil {
		cfg.AttendanceThreshold = *req.AttendanceThreshold
	}
	if req.DiscountPercentage != nil {
		cfg.DiscountPercentage = *req.DiscountPercentage
	}
	if req.ExpirationDays != nil {
		cfg.ExpirationDays = *req.ExpirationDays
	}
	if len(req.EligiblePlanUnits) > 0 {
		cfg.EligiblePlanUnits = req.EligiblePlanUnits
	}

	if err := s.rewardRepo.UpdateConfig(ctx, &cfg); err != nil {
		return reward.Config{}, fmt.Errorf("failed to update reward config: %w", err)
	}

	s.cache.Apply(ctx, cache.MutationRewardConfigUpdate, cache.Target{})

	s.logger.Info("reward config updated",
		zap.Int("attendance_threshold", cfg.AttendanceThreshold),
		zap.Float64("discount_percentage", cfg.DiscountPercentage),
		zap.Int("expiration_days", cfg.ExpirationDays),
		zap.Strings("eligible_plan_units", cfg.EligiblePlanUnits),
	)

	return cfg, nil
}

// RewardsFor lists the rewards earned by one subscription cycle.
func (s *RewardService) RewardsFor(ctx context.Context, subscriptionID int64) ([]reward.Reward, error) {
	key := cache.RewardsBySubscriptionKey(subscriptionID)

	var cached []reward.Reward
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	rewards, err := s.rewardRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	s.cache.Set(ctx, key, rewards)
	return rewards, nil
}

// AvailableFor lists a client's pending, unexpired rewards.
func (s *RewardService) AvailableFor(ctx context.Context, clientID int64) ([]reward.Reward, error) {
	key := cache.AvailableRewardsKey(clientID)

	var cached []reward.Reward
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	rewards, err := s.rewardRepo.ListAvailableByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available rewards: %w", err)
	}

	s.cache.Set(ctx, key, rewards)
	return rewards, nil
}

// Situation reports the lifecycle state for a subscription, combining stored
// reward records with a fresh, non-persisting evaluation.
func (s *RewardService) Situation(ctx context.Context, subscriptionID int64) (Derivation, error) {
	rewards, err := s.rewardRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return Derivation{}, fmt.Errorf("failed to fetch rewards: %w", err)
	}

	local, err := s.evaluate(ctx, subscriptionID)
	if err != nil {
		// Records alone still derive a state; evaluation is best-effort.
		s.logger.Warn("eligibility evaluation failed during state derivation",
			zap.Int64("subscription_id", subscriptionID), zap.Error(err))
		local = nil
	}

	return DeriveState(rewards, local, time.Now()), nil
}

// Calculate runs the eligibility check for a cycle and persists a pending
// reward when it qualifies. A cycle whose reward was already applied is
// never recalculated.
func (s *RewardService) Calculate(ctx context.Context, subscriptionID int64) (*reward.CalculationResult, error) {
	existing, err := s.rewardRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rewards: %w", err)
	}

	now := time.Now()
	for i := range existing {
		rw := &existing[i]
		if rw.Status == reward.RewardStatusApplied {
			return &reward.CalculationResult{
				Outcome:         "already_applied",
				Reward:          rw,
				AttendanceCount: rw.AttendanceCount,
			}, nil
		}
		if rw.Usable(now) {
			return &reward.CalculationResult{
				Outcome:         "calculated",
				Reward:          rw,
				AttendanceCount: rw.AttendanceCount,
				Percentage:      100,
			}, nil
		}
	}

	ev, err := s.evaluate(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	result := &reward.CalculationResult{
		Outcome:         string(ev.Outcome),
		AttendanceCount: ev.AttendanceCount,
		Percentage:      ev.Percentage,
		Remaining:       ev.Remaining,
	}

	if !ev.Eligible() {
		return result, nil
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("subscription not found: %w", err)
	}

	cfg := s.Config(ctx)
	rw := &reward.Reward{
		Reference:          ref.New("RWD"),
		ClientID:           sub.ClientID,
		SubscriptionID:     subscriptionID,
		DiscountPercentage: cfg.DiscountPercentage,
		AttendanceCount:    ev.AttendanceCount,
		Status:             reward.RewardStatusPending,
		ExpiresAt:          now.AddDate(0, 0, cfg.ExpirationDays),
	}

	if err := s.rewardRepo.Create(ctx, rw); err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}

	s.cache.Apply(ctx, cache.MutationRewardCalculated, cache.Target{
		ClientID:       sub.ClientID,
		SubscriptionID: subscriptionID,
	})

	s.logger.Info("reward calculated",
		zap.Int64("reward_id", rw.ID),
		zap.Int64("subscription_id", subscriptionID),
		zap.Int("attendance_count", ev.AttendanceCount),
		zap.Float64("discount_percentage", rw.DiscountPercentage),
	)

	result.Outcome = "calculated"
	result.Reward = rw
	return result, nil
}

// Apply consumes a pending reward against a renewal subscription.
func (s *RewardService) Apply(ctx context.Context, rewardID int64, req *reward.ApplyRewardRequest) (*reward.Reward, error) {
	if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
		return nil, xerrors.NewValidation("discount_percentage", "discount must be between 0 and 100")
	}

	rw, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		return nil, fmt.Errorf("reward not found: %w", err)
	}

	if rw.Status == reward.RewardStatusApplied {
		return nil, fmt.Errorf("reward already applied: %w", xerrors.ErrConflict)
	}
	if !rw.Usable(time.Now()) {
		return nil, xerrors.NewValidation("reward_id", "reward is expired or not usable")
	}

	if err := s.rewardRepo.MarkApplied(ctx, rewardID, req.SubscriptionID, req.DiscountPercentage); err != nil {
		return nil, fmt.Errorf("failed to apply reward: %w", err)
	}

	s.cache.Apply(ctx, cache.MutationRewardApplied, cache.Target{
		ClientID:       rw.ClientID,
		SubscriptionID: rw.SubscriptionID,
	})

	s.logger.Info("reward applied",
		zap.Int64("reward_id", rewardID),
		zap.Int64("applied_subscription_id", req.SubscriptionID),
		zap.Float64("discount_percentage", req.DiscountPercentage),
	)

	return s.rewardRepo.FindByID(ctx, rewardID)
}

// evaluate runs the pure evaluator over the cycle's stored attendance.
func (s *RewardService) evaluate(ctx context.Context, subscriptionID int64) (*Evaluation, error) {
	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("subscription not found: %w", err)
	}

	pl, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}

	attendances, err := s.attendanceRepo.ListInRange(ctx, sub.ClientID, sub.StartDate, sub.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	ev := Evaluate(string(pl.DurationUnit), sub.StartDate, sub.EndDate, attendances, s.Config(ctx))
	return &ev, nil
}
