// internal/repository/postgres/payment_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kilofit-service/internal/domain/payment"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateWithTx records a payment inside the same transaction as the
// subscription write it pays for.
func (r *PaymentRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, p *payment.Payment) error {
	query := `
		INSERT INTO payments (reference, client_id, subscription_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		p.Reference, p.ClientID, p.SubscriptionID, p.Amount, p.Method, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return xerrors.Classify("payments.create", err)
	}

	return nil
}

// List retrieves payments with filters, newest first.
func (r *PaymentRepository) List(ctx context.Context, filters *payment.PaymentListFilters) ([]payment.Payment, int64, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argPos))
		args = append(args, *filters.ClientID)
		argPos++
	}

	if filters.SubscriptionID != nil {
		conditions = append(conditions, fmt.Sprintf("subscription_id = $%d", argPos))
		args = append(args, *filters.SubscriptionID)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, xerrors.Classify("payments.count", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	query := fmt.Sprintf(`
		SELECT id, reference, client_id, subscription_id, amount, method, paid_at, created_at
		FROM payments
		WHERE %s
		ORDER BY paid_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, xerrors.Classify("payments.list", err)
	}
	defer rows.Close()

	payments := []payment.Payment{}
	for rows.Next() {
		var p payment.Payment
		err := rows.Scan(
			&p.ID, &p.Reference, &p.ClientID, &p.SubscriptionID,
			&p.Amount, &p.Method, &p.PaidAt, &p.CreatedAt,
		)
		if err != nil {
			return nil, 0, xerrors.Classify("payments.scan", err)
		}
		payments = append(payments, p)
	}

	return payments, total, nil
}

// GetStats aggregates payments for one subscription.
func (r *PaymentRepository) GetStats(ctx context.Context, subscriptionID int64) (*payment.Stats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0), MAX(paid_at)
		FROM payments
		WHERE subscription_id = $1
	`

	stats := payment.Stats{SubscriptionID: subscriptionID}
	var lastPaidAt *time.Time
	err := r.db.QueryRow(ctx, query, subscriptionID).
		Scan(&stats.PaymentCount, &stats.TotalPaid, &lastPaidAt)
	if err != nil {
		return nil, xerrors.Classify("payments.stats", err)
	}
	stats.LastPaidAt = lastPaidAt

	return &stats, nil
}
