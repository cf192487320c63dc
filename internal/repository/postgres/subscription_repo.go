// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kilofit-service/internal/domain/subscription"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `
	id, reference, client_id, plan_id, renewed_from_id,
	start_date, end_date,
	plan_price, discount_percentage, final_price, renewal_count,
	status, canceled_at, cancellation_reason,
	created_at, updated_at
`

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := row.Scan(
		&sub.ID, &sub.Reference, &sub.ClientID, &sub.PlanID, &sub.RenewedFromID,
		&sub.StartDate, &sub.EndDate,
		&sub.PlanPrice, &sub.DiscountPercentage, &sub.FinalPrice, &sub.RenewalCount,
		&sub.Status, &sub.CanceledAt, &sub.CancellationReason,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("subscriptions.scan", err)
	}
	return &sub, nil
}

// CreateWithTx inserts a subscription within a transaction.
func (r *SubscriptionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			reference, client_id, plan_id, renewed_from_id,
			start_date, end_date,
			plan_price, discount_percentage, final_price, renewal_count,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		sub.Reference, sub.ClientID, sub.PlanID, sub.RenewedFromID,
		sub.StartDate, sub.EndDate,
		sub.PlanPrice, sub.DiscountPercentage, sub.FinalPrice, sub.RenewalCount,
		sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return xerrors.Classify("subscriptions.create", err)
	}

	return nil
}

// FindByID retrieves a subscription by ID.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE id = $1`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

// FindActiveByClient retrieves the current active subscription for a client.
func (r *SubscriptionRepository) FindActiveByClient(ctx context.Context, clientID int64) (*subscription.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE client_id = $1 AND status = 'active'
		ORDER BY end_date DESC
		LIMIT 1
	`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, clientID))
}

// ListByClient retrieves every subscription of a client, newest cycle first.
func (r *SubscriptionRepository) ListByClient(ctx context.Context, clientID int64) ([]subscription.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE client_id = $1
		ORDER BY start_date DESC
	`, subscriptionColumns)

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, xerrors.Classify("subscriptions.list_by_client", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// List retrieves subscriptions with filters.
func (r *SubscriptionRepository) List(ctx context.Context, filters *subscription.SubscriptionListFilters) ([]subscription.Subscription, int64, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.PlanID != nil {
		conditions = append(conditions, fmt.Sprintf("plan_id = $%d", argPos))
		args = append(args, *filters.PlanID)
		argPos++
	}

	if filters.IsExpiring {
		conditions = append(conditions, fmt.Sprintf("end_date <= $%d AND status = 'active'", argPos))
		args = append(args, time.Now().AddDate(0, 0, 7))
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subscriptions WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, xerrors.Classify("subscriptions.count", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	sortBy := "created_at"
	switch filters.SortBy {
	case "start_date", "end_date", "status":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, subscriptionColumns, whereClause, sortBy, sortOrder, argPos, argPos+1)

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, xerrors.Classify("subscriptions.list", err)
	}
	defer rows.Close()

	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// MarkExpiredWithTx flips the old cycle to expired when a renewal replaces it.
func (r *SubscriptionRepository) MarkExpiredWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	query := `UPDATE subscriptions SET status = 'expired', updated_at = $1 WHERE id = $2`

	result, err := tx.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return xerrors.Classify("subscriptions.mark_expired", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Cancel cancels a subscription immediately.
func (r *SubscriptionRepository) Cancel(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE subscriptions
		SET status = 'canceled', canceled_at = $1, cancellation_reason = $2, updated_at = $1
		WHERE id = $3 AND status IN ('active', 'scheduled', 'pending_payment')
	`

	result, err := r.db.Exec(ctx, query, time.Now(),
		sql.NullString{String: reason, Valid: reason != ""}, id)
	if err != nil {
		return xerrors.Classify("subscriptions.cancel", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ExpireAllOverdue marks every active subscription whose cycle has ended as
// expired and reports how many rows changed.
func (r *SubscriptionRepository) ExpireAllOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'expired', updated_at = $1
		WHERE status = 'active' AND end_date < $1
	`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, xerrors.Classify("subscriptions.expire_all", err)
	}
	return result.RowsAffected(), nil
}

// ActivateAllDue flips scheduled subscriptions whose window has opened.
func (r *SubscriptionRepository) ActivateAllDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'active', updated_at = $1
		WHERE status = 'scheduled' AND start_date <= $1
	`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, xerrors.Classify("subscriptions.activate_all", err)
	}
	return result.RowsAffected(), nil
}

// GetExpiring retrieves active subscriptions ending within the given days.
func (r *SubscriptionRepository) GetExpiring(ctx context.Context, days int) ([]subscription.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE status = 'active' AND end_date <= $1 AND end_date > NOW()
		ORDER BY end_date ASC
	`, subscriptionColumns)

	rows, err := r.db.Query(ctx, query, time.Now().AddDate(0, 0, days))
	if err != nil {
		return nil, xerrors.Classify("subscriptions.get_expiring", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// GetStats aggregates counts and revenue across all subscriptions.
func (r *SubscriptionRepository) GetStats(ctx context.Context) (*subscription.SubscriptionStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'active' THEN 1 END) AS active,
			COUNT(CASE WHEN status = 'expired' THEN 1 END) AS expired,
			COUNT(CASE WHEN status = 'canceled' THEN 1 END) AS canceled,
			COALESCE(SUM(final_price), 0) AS revenue
		FROM subscriptions
	`

	var stats subscription.SubscriptionStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalSubscriptions,
		&stats.ActiveSubscriptions,
		&stats.ExpiredSubscriptions,
		&stats.CanceledSubscriptions,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, xerrors.Classify("subscriptions.stats", err)
	}

	return &stats, nil
}

func collectSubscriptions(rows pgx.Rows) ([]subscription.Subscription, error) {
	subs := []subscription.Subscription{}
	for rows.Next() {
		var sub subscription.Subscription
		err := rows.Scan(
			&sub.ID, &sub.Reference, &sub.ClientID, &sub.PlanID, &sub.RenewedFromID,
			&sub.StartDate, &sub.EndDate,
			&sub.PlanPrice, &sub.DiscountPercentage, &sub.FinalPrice, &sub.RenewalCount,
			&sub.Status, &sub.CanceledAt, &sub.CancellationReason,
			&sub.CreatedAt, &sub.UpdatedAt,
		)
		if err != nil {
			return nil, xerrors.Classify("subscriptions.scan", err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
