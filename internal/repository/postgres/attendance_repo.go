// internal/repository/postgres/attendance_repo.go
package postgres

import (
	"context"
	"time"

	"kilofit-service/internal/domain/attendance"
	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendanceRepository struct {
	db *pgxpool.Pool
}

func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	query := `
		INSERT INTO attendances (client_id, check_in, source)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, a.ClientID, a.CheckIn, a.Source).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return xerrors.Classify("attendances.create", err)
	}

	return nil
}

// ListInRange retrieves a client's check-ins within [from, to], both ends
// inclusive. The reward cycle window is a closed interval.
func (r *AttendanceRepository) ListInRange(ctx context.Context, clientID int64, from, to time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT id, client_id, check_in, source, created_at
		FROM attendances
		WHERE client_id = $1 AND check_in >= $2 AND check_in <= $3
		ORDER BY check_in ASC
	`

	rows, err := r.db.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, xerrors.Classify("attendances.list_in_range", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(&a.ID, &a.ClientID, &a.CheckIn, &a.Source, &a.CreatedAt); err != nil {
			return nil, xerrors.Classify("attendances.scan", err)
		}
		records = append(records, a)
	}

	return records, nil
}

// ListByClient retrieves a client's check-in history, newest first.
func (r *AttendanceRepository) ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]attendance.Attendance, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendances WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, 0, xerrors.Classify("attendances.count", err)
	}

	query := `
		SELECT id, client_id, check_in, source, created_at
		FROM attendances
		WHERE client_id = $1
		ORDER BY check_in DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, 0, xerrors.Classify("attendances.list", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(&a.ID, &a.ClientID, &a.CheckIn, &a.Source, &a.CreatedAt); err != nil {
			return nil, 0, xerrors.Classify("attendances.scan", err)
		}
		records = append(records, a)
	}

	return records, total, nil
}

// CountToday reports check-ins for a client since local midnight, used to
// reject duplicate same-visit check-ins.
func (r *AttendanceRepository) CountToday(ctx context.Context, clientID int64, now time.Time) (int64, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendances WHERE client_id = $1 AND check_in >= $2`,
		clientID, dayStart).Scan(&count)
	if err != nil {
		return 0, xerrors.Classify("attendances.count_today", err)
	}
	return count, nil
}
