// internal/service/reward/service_test.go
package reward

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"kilofit-service/internal/cache"
	"kilofit-service/internal/domain/attendance"
	"kilofit-service/internal/domain/plan"
	"kilofit-service/internal/domain/reward"
	"kilofit-service/internal/domain/subscription"
	xerrors "kilofit-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeRewardStore struct {
	bySubscription []reward.Reward
	byID           map[int64]*reward.Reward
	created        []*reward.Reward
	appliedIDs     []int64
	config         *reward.Config
	configErr      error
}

func (s *fakeRewardStore) Create(ctx context.Context, rw *reward.Reward) error {
	rw.ID = int64(len(s.created) + 1)
	s.created = append(s.created, rw)
	return nil
}

func (s *fakeRewardStore) FindByID(ctx context.Context, id int64) (*reward.Reward, error) {
	rw, ok := s.byID[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return rw, nil
}

func (s *fakeRewardStore) ListBySubscription(ctx context.Context, subscriptionID int64) ([]reward.Reward, error) {
	return s.bySubscription, nil
}

func (s *fakeRewardStore) ListAvailableByClient(ctx context.Context, clientID int64) ([]reward.Reward, error) {
	return nil, nil
}

func (s *fakeRewardStore) MarkApplied(ctx context.Context, id, appliedSubscriptionID int64, discount float64) error {
	s.appliedIDs = append(s.appliedIDs, id)
	if rw, ok := s.byID[id]; ok {
		rw.Status = reward.RewardStatusApplied
	}
	return nil
}

func (s *fakeRewardStore) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *fakeRewardStore) GetConfig(ctx context.Context) (*reward.Config, error) {
	if s.configErr != nil {
		return nil, s.configErr
	}
	return s.config, nil
}

func (s *fakeRewardStore) UpdateConfig(ctx context.Context, cfg *reward.Config) error {
	s.config = cfg
	return nil
}

type fakeSubFinder struct {
	sub *subscription.Subscription
}

func (s *fakeSubFinder) FindByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	if s.sub == nil {
		return nil, xerrors.ErrNotFound
	}
	return s.sub, nil
}

type fakePlanFinder struct {
	plan *plan.Plan
}

func (s *fakePlanFinder) FindByID(ctx context.Context, id int64) (*plan.Plan, error) {
	return s.plan, nil
}

type fakeAttendanceStore struct {
	attendances []attendance.Attendance
}

func (s *fakeAttendanceStore) ListInRange(ctx context.Context, clientID int64, from, to time.Time) ([]attendance.Attendance, error) {
	return s.attendances, nil
}

type missCache struct{}

func (missCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrMiss
}

func (missCache) Set(ctx context.Context, key string, value interface{}) {}

func (missCache) SetTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) {}

func (missCache) Apply(ctx context.Context, m cache.Mutation, t cache.Target) {}

// cycleStart is snapshotted once so every fixture built from monthlyCycle
// shares identical cycle boundaries; separate time.Now() calls would skew
// the first check-in a few nanoseconds outside the closed cycle window.
var cycleStart = time.Now().AddDate(0, -1, 0)

func monthlyCycle() *subscription.Subscription {
	start := cycleStart
	return &subscription.Subscription{
		ID:        10,
		ClientID:  5,
		PlanID:    3,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Status:    subscription.SubscriptionStatusActive,
	}
}

func monthlyPlan() *plan.Plan {
	return &plan.Plan{ID: 3, DurationUnit: plan.UnitMonth, Price: 100, Status: plan.PlanStatusActive}
}

func newRewardService(store *fakeRewardStore, atts []attendance.Attendance) *RewardService {
	return NewRewardService(
		store,
		&fakeSubFinder{sub: monthlyCycle()},
		&fakePlanFinder{plan: monthlyPlan()},
		&fakeAttendanceStore{attendances: atts},
		missCache{},
		time.Hour,
		zap.NewNop(),
	)
}

func cycleCheckIns(sub *subscription.Subscription, n int) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, attendance.Attendance{CheckIn: sub.StartDate.Add(time.Duration(i) * 24 * time.Hour)})
	}
	return out
}

func TestCalculateAppliedBlocksRecalculation(t *testing.T) {
	store := &fakeRewardStore{
		bySubscription: []reward.Reward{
			{ID: 1, Status: reward.RewardStatusApplied, AttendanceCount: 14},
		},
		config: &reward.Config{AttendanceThreshold: 12, DiscountPercentage: 10, ExpirationDays: 30, EligiblePlanUnits: []string{"month"}},
	}
	svc := newRewardService(store, cycleCheckIns(monthlyCycle(), 20))

	result, err := svc.Calculate(context.Background(), 10)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Outcome != "already_applied" {
		t.Fatalf("outcome = %q, want already_applied", result.Outcome)
	}
	if len(store.created) != 0 {
		t.Error("an applied cycle must never produce a new reward")
	}
}

func TestCalculatePersistsPendingOnEligible(t *testing.T) {
	store := &fakeRewardStore{
		config: &reward.Config{AttendanceThreshold: 12, DiscountPercentage: 10, ExpirationDays: 30, EligiblePlanUnits: []string{"month"}},
	}
	svc := newRewardService(store, cycleCheckIns(monthlyCycle(), 12))

	result, err := svc.Calculate(context.Background(), 10)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Outcome != "calculated" {
		t.Fatalf("outcome = %q, want calculated", result.Outcome)
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d rewards, want 1", len(store.created))
	}

	rw := store.created[0]
	if rw.Status != reward.RewardStatusPending {
		t.Errorf("status = %q, want pending", rw.Status)
	}
	if rw.DiscountPercentage != 10 {
		t.Errorf("discount = %v, want 10", rw.DiscountPercentage)
	}
	wantExpiry := time.Now().AddDate(0, 0, 30)
	if rw.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || rw.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expires at %v, want about %v", rw.ExpiresAt, wantExpiry)
	}
}

func TestCalculateNotEligibleDoesNotPersist(t *testing.T) {
	store := &fakeRewardStore{
		config: &reward.Config{AttendanceThreshold: 12, DiscountPercentage: 10, ExpirationDays: 30, EligiblePlanUnits: []string{"month"}},
	}
	svc := newRewardService(store, cycleCheckIns(monthlyCycle(), 5))

	result, err := svc.Calculate(context.Background(), 10)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Outcome != string(OutcomeNotEligible) {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeNotEligible)
	}
	if result.Remaining != 7 {
		t.Errorf("remaining = %d, want 7", result.Remaining)
	}
	if len(store.created) != 0 {
		t.Error("an ineligible cycle must not persist a reward")
	}
}

func TestConfigFallsBackToDefaults(t *testing.T) {
	store := &fakeRewardStore{configErr: errors.New("connection refused")}
	svc := newRewardService(store, nil)

	cfg := svc.Config(context.Background())
	if !reflect.DeepEqual(cfg, reward.Defaults()) {
		t.Errorf("config = %+v, want defaults %+v", cfg, reward.Defaults())
	}
}

func TestApplyRejectsExpiredReward(t *testing.T) {
	store := &fakeRewardStore{
		byID: map[int64]*reward.Reward{
			9: {ID: 9, Status: reward.RewardStatusPending, ExpiresAt: time.Now().AddDate(0, 0, -1)},
		},
	}
	svc := newRewardService(store, nil)

	_, err := svc.Apply(context.Background(), 9, &reward.ApplyRewardRequest{
		SubscriptionID:     11,
		DiscountPercentage: 10,
	})
	var vErr *xerrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(store.appliedIDs) != 0 {
		t.Error("an expired reward must never be marked applied")
	}
}

func TestApplyRejectsAlreadyApplied(t *testing.T) {
	store := &fakeRewardStore{
		byID: map[int64]*reward.Reward{
			9: {ID: 9, Status: reward.RewardStatusApplied, ExpiresAt: time.Now().AddDate(0, 0, 10)},
		},
	}
	svc := newRewardService(store, nil)

	_, err := svc.Apply(context.Background(), 9, &reward.ApplyRewardRequest{
		SubscriptionID:     11,
		DiscountPercentage: 10,
	})
	if !errors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}
