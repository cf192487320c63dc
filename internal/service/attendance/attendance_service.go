// internal/service/attendance/attendance_service.go
package attendance

import (
	"context"
	"fmt"
	"time"

	"kilofit-service/internal/domain/attendance"
	"kilofit-service/internal/domain/plan"
	"kilofit-service/internal/domain/subscription"
	xerrors "kilofit-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type AttendanceStore interface {
	Create(ctx context.Context, a *attendance.Attendance) error
	ListInRange(ctx context.Context, clientID int64, from, to time.Time) ([]attendance.Attendance, error)
	ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]attendance.Attendance, int64, error)
	CountToday(ctx context.Context, clientID int64, now time.Time) (int64, error)
}

type SubscriptionStore interface {
	FindActiveByClient(ctx context.Context, clientID int64) (*subscription.Subscription, error)
}

type PlanStore interface {
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type AttendanceService struct {
	attendanceRepo   AttendanceStore
	subscriptionRepo SubscriptionStore
	planRepo         PlanStore
	logger           *zap.Logger
}

func NewAttendanceService(
	attendanceRepo AttendanceStore,
	subscriptionRepo SubscriptionStore,
	planRepo PlanStore,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo:   attendanceRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		logger:           logger,
	}
}

// CheckIn records a gym visit. The client needs a running subscription, one
// check-in per day counts, and plans with a sessions limit stop admitting
// once the cycle's quota is used up.
func (s *AttendanceService) CheckIn(ctx context.Context, req *attendance.CheckInRequest) (*attendance.Attendance, error) {
	now := time.Now()

	sub, err := s.subscriptionRepo.FindActiveByClient(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("no active subscription: %w", err)
	}

	today, err := s.attendanceRepo.CountToday(ctx, req.ClientID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if today > 0 {
		return nil, fmt.Errorf("client already checked in today: %w", xerrors.ErrConflict)
	}

	pl, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}
	if pl.SessionsLimit.Valid {
		used, err := s.attendanceRepo.ListInRange(ctx, req.ClientID, sub.StartDate, sub.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to count cycle attendance: %w", err)
		}
		if len(used) >= int(pl.SessionsLimit.Int32) {
			return nil, xerrors.NewValidation("client_id", "sessions limit reached for the current cycle")
		}
	}

	source := req.Source
	if source == "" {
		source = "desk"
	}

	a := &attendance.Attendance{
		ClientID: req.ClientID,
		CheckIn:  now,
		Source:   source,
	}
	if err := s.attendanceRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	s.logger.Info("client checked in",
		zap.Int64("client_id", req.ClientID),
		zap.String("source", source),
	)
	return a, nil
}

// ListByClient returns a client's attendance history, newest first.
func (s *AttendanceService) ListByClient(ctx context.Context, clientID int64, page, pageSize int) ([]attendance.Attendance, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return s.attendanceRepo.ListByClient(ctx, clientID, pageSize, (page-1)*pageSize)
}

// ListInCycle returns the check-ins counted toward one subscription cycle.
func (s *AttendanceService) ListInCycle(ctx context.Context, clientID int64, from, to time.Time) ([]attendance.Attendance, error) {
	return s.attendanceRepo.ListInRange(ctx, clientID, from, to)
}
