// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kilofit-service/internal/domain/plan"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `
	id, name, description, duration_count, duration_unit, price,
	sessions_limit, status, is_public, created_at, updated_at
`

func scanPlan(row pgx.Row) (*plan.Plan, error) {
	var p plan.Plan
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.DurationCount, &p.DurationUnit, &p.Price,
		&p.SessionsLimit, &p.Status, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("plans.scan", err)
	}
	return &p, nil
}

func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (name, description, duration_count, duration_unit, price, sessions_limit, status, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Name, p.Description, p.DurationCount, p.DurationUnit, p.Price,
		p.SessionsLimit, p.Status, p.IsPublic,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return xerrors.Classify("plans.create", err)
	}

	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE id = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

// List retrieves plans; publicOnly limits to active public plans.
func (r *PlanRepository) List(ctx context.Context, publicOnly bool) ([]plan.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans ORDER BY price ASC`, planColumns)
	if publicOnly {
		query = fmt.Sprintf(`
			SELECT %s FROM plans
			WHERE is_public = TRUE AND status = 'active'
			ORDER BY price ASC
		`, planColumns)
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, xerrors.Classify("plans.list", err)
	}
	defer rows.Close()

	plans := []plan.Plan{}
	for rows.Next() {
		var p plan.Plan
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.DurationCount, &p.DurationUnit, &p.Price,
			&p.SessionsLimit, &p.Status, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, xerrors.Classify("plans.scan", err)
		}
		plans = append(plans, p)
	}

	return plans, nil
}

func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE plans
		SET name = $1, description = $2, price = $3, sessions_limit = $4, is_public = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query,
		p.Name, p.Description, p.Price, p.SessionsLimit, p.IsPublic, time.Now(), p.ID)
	if err != nil {
		return xerrors.Classify("plans.update", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *PlanRepository) UpdateStatus(ctx context.Context, id int64, status plan.PlanStatus) error {
	query := `UPDATE plans SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return xerrors.Classify("plans.update_status", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
