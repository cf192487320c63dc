// internal/repository/postgres/admin_repo.go
package postgres

import (
	"context"
	"errors"
	"time"

	"kilofit-service/internal/domain/admin"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	query := `
		INSERT INTO admins (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.Email, a.FullName, a.PasswordHash, a.Role, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return xerrors.Classify("admins.create", err)
	}

	return nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	query := `
		SELECT id, email, full_name, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var a admin.Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("admins.find_by_email", err)
	}

	return &a, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*admin.Admin, error) {
	query := `
		SELECT id, email, full_name, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM admins
		WHERE id = $1
	`

	var a admin.Admin
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Classify("admins.find_by_id", err)
	}

	return &a, nil
}

func (r *AdminRepository) TouchLogin(ctx context.Context, id int64) error {
	query := `UPDATE admins SET last_login_at = $1, updated_at = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return xerrors.Classify("admins.touch_login", err)
	}
	return nil
}
