// internal/service/subscription/renewal_test.go
package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"kilofit-service/internal/cache"
	"kilofit-service/internal/domain/client"
	"kilofit-service/internal/domain/payment"
	"kilofit-service/internal/domain/plan"
	"kilofit-service/internal/domain/reward"
	"kilofit-service/internal/domain/subscription"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ----- fakes -----

type fakeTx struct {
	pgx.Tx
	committed  *bool
	rolledBack *bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	*t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !*t.committed {
		*t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	committed  bool
	rolledBack bool
}

func (db *fakeDB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{committed: &db.committed, rolledBack: &db.rolledBack}, nil
}

type fakeSubStore struct {
	byID      map[int64]*subscription.Subscription
	created   []*subscription.Subscription
	expired   []int64
	findCalls int
	nextID    int64
}

func (s *fakeSubStore) FindByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	s.findCalls++
	sub, ok := s.byID[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *fakeSubStore) CreateWithTx(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error {
	s.nextID++
	sub.ID = s.nextID + 100
	s.created = append(s.created, sub)
	return nil
}

func (s *fakeSubStore) MarkExpiredWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	s.expired = append(s.expired, id)
	return nil
}

func (s *fakeSubStore) FindActiveByClient(ctx context.Context, clientID int64) (*subscription.Subscription, error) {
	return nil, xerrors.ErrNotFound
}

func (s *fakeSubStore) ListByClient(ctx context.Context, clientID int64) ([]subscription.Subscription, error) {
	return nil, nil
}

func (s *fakeSubStore) List(ctx context.Context, filters *subscription.SubscriptionListFilters) ([]subscription.Subscription, int64, error) {
	return nil, 0, nil
}

func (s *fakeSubStore) Cancel(ctx context.Context, id int64, reason string) error { return nil }

func (s *fakeSubStore) ExpireAllOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *fakeSubStore) ActivateAllDue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *fakeSubStore) GetExpiring(ctx context.Context, days int) ([]subscription.Subscription, error) {
	return nil, nil
}

func (s *fakeSubStore) GetStats(ctx context.Context) (*subscription.SubscriptionStats, error) {
	return &subscription.SubscriptionStats{}, nil
}

type fakePlanStore struct {
	plans map[int64]*plan.Plan
}

func (s *fakePlanStore) FindByID(ctx context.Context, id int64) (*plan.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return p, nil
}

type fakeClientStore struct{}

func (s *fakeClientStore) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	return &client.Client{ID: id, Status: client.ClientStatusActive}, nil
}

type fakePaymentStore struct {
	created []*payment.Payment
}

func (s *fakePaymentStore) CreateWithTx(ctx context.Context, tx pgx.Tx, p *payment.Payment) error {
	s.created = append(s.created, p)
	return nil
}

func (s *fakePaymentStore) GetStats(ctx context.Context, subscriptionID int64) (*payment.Stats, error) {
	return &payment.Stats{SubscriptionID: subscriptionID}, nil
}

type fakeRewardApplier struct {
	err   error
	calls []int64
	reqs  []*reward.ApplyRewardRequest
}

func (f *fakeRewardApplier) Apply(ctx context.Context, rewardID int64, req *reward.ApplyRewardRequest) (*reward.Reward, error) {
	f.calls = append(f.calls, rewardID)
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &reward.Reward{ID: rewardID, Status: reward.RewardStatusApplied}, nil
}

type fakeCache struct {
	applied []cache.Mutation
	targets []cache.Target
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrMiss
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}) {}
func (f *fakeCache) Seed(ctx context.Context, key string, value interface{}) {}

func (f *fakeCache) Apply(ctx context.Context, m cache.Mutation, t cache.Target) {
	f.applied = append(f.applied, m)
	f.targets = append(f.targets, t)
}

type fakeLock struct {
	held     bool
	acquired int
	released int
}

func (l *fakeLock) Acquire(ctx context.Context, subscriptionID int64) (bool, error) {
	l.acquired++
	return !l.held, nil
}

func (l *fakeLock) Release(ctx context.Context, subscriptionID int64) {
	l.released++
}

// ----- fixtures -----

type renewFixture struct {
	db       *fakeDB
	subs     *fakeSubStore
	plans    *fakePlanStore
	payments *fakePaymentStore
	rewards  *fakeRewardApplier
	cache    *fakeCache
	lock     *fakeLock
	svc      *SubscriptionService
}

func newRenewFixture(sub *subscription.Subscription) *renewFixture {
	f := &renewFixture{
		db:       &fakeDB{},
		subs:     &fakeSubStore{byID: map[int64]*subscription.Subscription{}},
		plans:    &fakePlanStore{plans: map[int64]*plan.Plan{}},
		payments: &fakePaymentStore{},
		rewards:  &fakeRewardApplier{},
		cache:    &fakeCache{},
		lock:     &fakeLock{},
	}
	if sub != nil {
		f.subs.byID[sub.ID] = sub
	}
	f.plans.plans[3] = &plan.Plan{
		ID:            3,
		Name:          "Monthly",
		DurationCount: 1,
		DurationUnit:  plan.UnitMonth,
		Price:         100,
		Status:        plan.PlanStatusActive,
	}
	f.svc = NewSubscriptionService(
		f.db, f.subs, f.plans, &fakeClientStore{}, f.payments,
		f.rewards, f.cache, f.lock, nil, 7, zap.NewNop(),
	)
	return f
}

func expiredSub() *subscription.Subscription {
	return &subscription.Subscription{
		ID:           10,
		Reference:    "SUB-OLD",
		ClientID:     5,
		PlanID:       3,
		EndDate:      time.Now().AddDate(0, 0, -2),
		PlanPrice:    100,
		FinalPrice:   100,
		RenewalCount: 1,
		Status:       subscription.SubscriptionStatusExpired,
	}
}

func int64p(v int64) *int64 { return &v }

// ----- tests -----

func TestRenewWithReward(t *testing.T) {
	f := newRenewFixture(expiredSub())

	outcome, err := f.svc.Renew(context.Background(), 10, &subscription.RenewSubscriptionRequest{
		RewardID:           int64p(77),
		DiscountPercentage: "15",
		PaymentMethod:      "card",
	})
	if err != nil {
		t.Fatalf("Renew: %v", err)
	}

	if len(f.subs.created) != 1 {
		t.Fatalf("created %d subscriptions, want 1", len(f.subs.created))
	}
	next := f.subs.created[0]
	if !next.RenewedFromID.Valid || next.RenewedFromID.Int64 != 10 {
		t.Errorf("RenewedFromID = %+v, want 10", next.RenewedFromID)
	}
	if next.RenewalCount != 2 {
		t.Errorf("RenewalCount = %d, want 2", next.RenewalCount)
	}
	if next.FinalPrice != 85 {
		t.Errorf("FinalPrice = %v, want 85 (100 with 15%% off)", next.FinalPrice)
	}

	if !f.db.committed {
		t.Error("transaction was not committed")
	}
	if len(f.payments.created) != 1 || f.payments.created[0].Amount != 85 {
		t.Errorf("payment = %+v, want one payment of 85", f.payments.created)
	}

	if !outcome.RewardApplied || outcome.RewardWarning != "" {
		t.Errorf("outcome = %+v, want reward applied without warning", outcome)
	}
	if len(f.rewards.calls) != 1 || f.rewards.calls[0] != 77 {
		t.Errorf("reward apply calls = %v, want [77]", f.rewards.calls)
	}
	if f.rewards.reqs[0].SubscriptionID != next.ID {
		t.Errorf("reward applied against subscription %d, want the new cycle %d",
			f.rewards.reqs[0].SubscriptionID, next.ID)
	}

	if f.lock.acquired != 1 || f.lock.released != 1 {
		t.Errorf("lock acquired=%d released=%d, want 1/1", f.lock.acquired, f.lock.released)
	}
}

// A failed reward step after commit must not undo the renewal; it degrades
// to a warning on a successful outcome.
func TestRenewRewardFailureKeepsRenewal(t *testing.T) {
	f := newRenewFixture(expiredSub())
	f.rewards.err = errors.New("reward store unavailable")

	outcome, err := f.svc.Renew(context.Background(), 10, &subscription.RenewSubscriptionRequest{
		RewardID:           int64p(77),
		DiscountPercentage: "15",
	})
	if err != nil {
		t.Fatalf("Renew must succeed despite reward failure, got %v", err)
	}

	if len(f.subs.created) != 1 {
		t.Fatalf("created %d subscriptions, want 1", len(f.subs.created))
	}
	if !f.db.committed || f.db.rolledBack {
		t.Error("renewal must stay committed when the reward step fails")
	}
	if outcome.RewardApplied {
		t.Error("RewardApplied = true, want false")
	}
	if outcome.RewardWarning == "" {
		t.Error("outcome must carry a reward warning")
	}

	// Cache invalidation still runs: the renewal itself succeeded.
	found := false
	for _, m := range f.cache.applied {
		if m == cache.MutationRenewSubscription {
			found = true
		}
	}
	if !found {
		t.Error("renew mutation was not applied to the cache")
	}
}

func TestRenewDuplicateSubmissionIsNoOp(t *testing.T) {
	f := newRenewFixture(expiredSub())
	f.lock.held = true

	_, err := f.svc.Renew(context.Background(), 10, &subscription.RenewSubscriptionRequest{})
	if !errors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if f.subs.findCalls != 0 {
		t.Error("an in-flight renewal must block before any store access")
	}
	if len(f.subs.created) != 0 {
		t.Error("no subscription may be created while the lock is held")
	}
}

func TestRenewGateBlocksActiveOutsideWindow(t *testing.T) {
	sub := expiredSub()
	sub.Status = subscription.SubscriptionStatusActive
	sub.EndDate = time.Now().AddDate(0, 0, 20)

	f := newRenewFixture(sub)

	_, err := f.svc.Renew(context.Background(), 10, &subscription.RenewSubscriptionRequest{})
	var vErr *xerrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(f.subs.created) != 0 {
		t.Error("a gated renewal must not create anything")
	}
	if f.lock.released != 1 {
		t.Error("the lock must be released after a gated renewal")
	}
}

func TestRenewUnparsableDiscountMeansNoDiscount(t *testing.T) {
	f := newRenewFixture(expiredSub())

	outcome, err := f.svc.Renew(context.Background(), 10, &subscription.RenewSubscriptionRequest{
		RewardID:           int64p(77),
		DiscountPercentage: "n/a",
	})
	if err != nil {
		t.Fatalf("Renew: %v", err)
	}

	if f.subs.created[0].FinalPrice != 100 {
		t.Errorf("FinalPrice = %v, want full price 100", f.subs.created[0].FinalPrice)
	}
	if len(f.rewards.calls) != 0 {
		t.Error("no reward should be consumed without a usable discount")
	}
	if outcome.RewardApplied {
		t.Error("RewardApplied = true, want false")
	}
}

func TestRenewActiveInsideWindowStartsAtCycleEnd(t *testing.T) {
	sub := expiredSub()
	sub.Status = subscription.SubscriptionStatusActive
	sub.EndDate = time.Now().AddDate(0, 0, 5)

	f := newRenewFixture(sub)

	_, err := f.svc.Renew(context.Background(), 10, &subscription.RenewSubscriptionRequest{})
	if err != nil {
		t.Fatalf("Renew: %v", err)
	}

	next := f.subs.created[0]
	if !next.StartDate.Equal(sub.EndDate) {
		t.Errorf("successor starts %v, want the old cycle's end %v", next.StartDate, sub.EndDate)
	}
	if next.Status != subscription.SubscriptionStatusScheduled {
		t.Errorf("successor status = %q, want scheduled", next.Status)
	}
	if len(f.subs.expired) != 0 {
		t.Error("a still-running cycle must not be expired by renewal")
	}
}
