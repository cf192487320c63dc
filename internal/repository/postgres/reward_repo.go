// internal/repository/postgres/reward_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kilofit-service/internal/domain/reward"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type RewardRepository struct {
	db *pgxpool.Pool
}

func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: db}
}

const rewardColumns = `
	id, reference, client_id, subscription_id, applied_subscription_id,
	discount_percentage, attendance_count,
	status, expires_at, applied_at,
	created_at, updated_at
`

func scanReward(row pgx.Row) (*reward.Reward, error) {
	var rw reward.Reward
	err := row.Scan(
		&rw.ID, &rw.Reference, &rw.ClientID, &rw.SubscriptionID, &rw.AppliedSubscriptionID,
		&rw.DiscountPercentage, &rw.AttendanceCount,
		&rw.Status, &rw.ExpiresAt, &rw.AppliedAt,
		&rw.CreatedAt, &rw.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("rewards.scan", err)
	}
	return &rw, nil
}

// Create inserts a freshly calculated pending reward. The partial unique
// index on (subscription_id) WHERE status = 'pending' upholds the at most
// one usable reward per cycle invariant.
func (r *RewardRepository) Create(ctx context.Context, rw *reward.Reward) error {
	query := `
		INSERT INTO rewards (
			reference, client_id, subscription_id,
			discount_percentage, attendance_count, status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		rw.Reference, rw.ClientID, rw.SubscriptionID,
		rw.DiscountPercentage, rw.AttendanceCount, rw.Status, rw.ExpiresAt,
	).Scan(&rw.ID, &rw.CreatedAt, &rw.UpdatedAt)

	if err != nil {
		return xerrors.Classify("rewards.create", err)
	}

	return nil
}

// FindByID retrieves a reward by ID.
func (r *RewardRepository) FindByID(ctx context.Context, id int64) (*reward.Reward, error) {
	query := fmt.Sprintf(`SELECT %s FROM rewards WHERE id = $1`, rewardColumns)
	return scanReward(r.db.QueryRow(ctx, query, id))
}

// ListBySubscription retrieves every reward earned by one cycle.
func (r *RewardRepository) ListBySubscription(ctx context.Context, subscriptionID int64) ([]reward.Reward, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rewards
		WHERE subscription_id = $1
		ORDER BY created_at DESC
	`, rewardColumns)

	rows, err := r.db.Query(ctx, query, subscriptionID)
	if err != nil {
		return nil, xerrors.Classify("rewards.list_by_subscription", err)
	}
	defer rows.Close()

	return collectRewards(rows)
}

// ListAvailableByClient retrieves pending, unexpired rewards for a client.
func (r *RewardRepository) ListAvailableByClient(ctx context.Context, clientID int64) ([]reward.Reward, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rewards
		WHERE client_id = $1 AND status = 'pending' AND expires_at > NOW()
		ORDER BY expires_at ASC
	`, rewardColumns)

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, xerrors.Classify("rewards.list_available", err)
	}
	defer rows.Close()

	return collectRewards(rows)
}

// MarkApplied consumes a pending reward, binding it to the renewal that spent
// it. The status guard makes a double apply report not-found instead of
// silently rewriting an applied reward.
func (r *RewardRepository) MarkApplied(ctx context.Context, id, appliedSubscriptionID int64, discount float64) error {
	query := `
		UPDATE rewards
		SET status = 'applied', applied_subscription_id = $1,
		    discount_percentage = $2, applied_at = $3, updated_at = $3
		WHERE id = $4 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, appliedSubscriptionID, discount, time.Now(), id)
	if err != nil {
		return xerrors.Classify("rewards.mark_applied", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ExpireOverdue marks pending rewards past their expiry and reports the count.
func (r *RewardRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE rewards
		SET status = 'expired', updated_at = $1
		WHERE status = 'pending' AND expires_at <= $1
	`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, xerrors.Classify("rewards.expire_overdue", err)
	}
	return result.RowsAffected(), nil
}

// GetConfig fetches the stored reward program configuration.
func (r *RewardRepository) GetConfig(ctx context.Context) (*reward.Config, error) {
	query := `
		SELECT attendance_threshold, discount_percentage, expiration_days, eligible_plan_units
		FROM reward_config
		ORDER BY id DESC
		LIMIT 1
	`

	var cfg reward.Config
	err := r.db.QueryRow(ctx, query).Scan(
		&cfg.AttendanceThreshold,
		&cfg.DiscountPercentage,
		&cfg.ExpirationDays,
		pq.Array(&cfg.EligiblePlanUnits),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("rewards.get_config", err)
	}

	return &cfg, nil
}

// UpdateConfig stores a new configuration revision.
func (r *RewardRepository) UpdateConfig(ctx context.Context, cfg *reward.Config) error {
	query := `
		INSERT INTO reward_config (attendance_threshold, discount_percentage, expiration_days, eligible_plan_units)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		cfg.AttendanceThreshold,
		cfg.DiscountPercentage,
		cfg.ExpirationDays,
		pq.Array(cfg.EligiblePlanUnits),
	)
	if err != nil {
		return xerrors.Classify("rewards.update_config", err)
	}
	return nil
}

func collectRewards(rows pgx.Rows) ([]reward.Reward, error) {
	rewards := []reward.Reward{}
	for rows.Next() {
		var rw reward.Reward
		err := rows.Scan(
			&rw.ID, &rw.Reference, &rw.ClientID, &rw.SubscriptionID, &rw.AppliedSubscriptionID,
			&rw.DiscountPercentage, &rw.AttendanceCount,
			&rw.Status, &rw.ExpiresAt, &rw.AppliedAt,
			&rw.CreatedAt, &rw.UpdatedAt,
		)
		if err != nil {
			return nil, xerrors.Classify("rewards.scan", err)
		}
		rewards = append(rewards, rw)
	}
	return rewards, nil
}
