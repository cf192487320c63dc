// internal/repository/postgres/client_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kilofit-service/internal/domain/client"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `
	id, reference, full_name, phone, email, face_ref,
	status, notes, created_at, updated_at
`

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID, &c.Reference, &c.FullName, &c.Phone, &c.Email, &c.FaceRef,
		&c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("clients.scan", err)
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (reference, full_name, phone, email, face_ref, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Reference, c.FullName, c.Phone, c.Email, c.FaceRef, c.Status, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return xerrors.Classify("clients.create", err)
	}

	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, id))
}

func (r *ClientRepository) FindByPhone(ctx context.Context, phone string) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE phone = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, phone))
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET full_name = $1, phone = $2, email = $3, face_ref = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query,
		c.FullName, c.Phone, c.Email, c.FaceRef, c.Notes, time.Now(), c.ID)
	if err != nil {
		return xerrors.Classify("clients.update", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) UpdateStatus(ctx context.Context, id int64, status client.ClientStatus) error {
	query := `UPDATE clients SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return xerrors.Classify("clients.update_status", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// List retrieves clients with filters; Search matches name or phone.
func (r *ClientRepository) List(ctx context.Context, filters *client.ClientListFilters) ([]client.Client, int64, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(full_name ILIKE $%d OR phone ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clients WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, xerrors.Classify("clients.count", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	sortBy := "created_at"
	switch filters.SortBy {
	case "full_name", "status":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM clients
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, clientColumns, whereClause, sortBy, sortOrder, argPos, argPos+1)

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, xerrors.Classify("clients.list", err)
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		var c client.Client
		err := rows.Scan(
			&c.ID, &c.Reference, &c.FullName, &c.Phone, &c.Email, &c.FaceRef,
			&c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, 0, xerrors.Classify("clients.scan", err)
		}
		clients = append(clients, c)
	}

	return clients, total, nil
}

func (r *ClientRepository) GetStats(ctx context.Context) (*client.ClientStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'active' THEN 1 END) AS active,
			COUNT(CASE WHEN status = 'inactive' THEN 1 END) AS inactive,
			COUNT(CASE WHEN created_at >= date_trunc('month', NOW()) THEN 1 END) AS new_this_month
		FROM clients
	`

	var stats client.ClientStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalClients,
		&stats.ActiveClients,
		&stats.InactiveClients,
		&stats.NewThisMonth,
	)
	if err != nil {
		return nil, xerrors.Classify("clients.stats", err)
	}

	return &stats, nil
}

// ExistsByPhone checks for phone uniqueness before insert.
func (r *ClientRepository) ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE phone = $1 AND id != $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, phone, excludeID).Scan(&exists)
	if err != nil {
		return false, xerrors.Classify("clients.exists_by_phone", err)
	}
	return exists, nil
}
