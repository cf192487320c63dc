// internal/service/plan/plan_service.go
package plan

import (
	"context"
	"database/sql"
	"fmt"

	"kilofit-service/internal/domain/plan"
	xerrors "kilofit-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type PlanStore interface {
	Create(ctx context.Context, p *plan.Plan) error
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
	List(ctx context.Context, publicOnly bool) ([]plan.Plan, error)
	Update(ctx context.Context, p *plan.Plan) error
	UpdateStatus(ctx context.Context, id int64, status plan.PlanStatus) error
}

type PlanService struct {
	planRepo PlanStore
	logger   *zap.Logger
}

func NewPlanService(planRepo PlanStore, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

func (s *PlanService) Create(ctx context.Context, req *plan.CreatePlanRequest) (*plan.Plan, error) {
	p := &plan.Plan{
		Name:          req.Name,
		Description:   sql.NullString{String: req.Description, Valid: req.Description != ""},
		DurationCount: req.DurationCount,
		DurationUnit:  req.DurationUnit,
		Price:         req.Price,
		Status:        plan.PlanStatusActive,
		IsPublic:      req.IsPublic,
	}
	if req.SessionsLimit != nil {
		p.SessionsLimit = sql.NullInt32{Int32: *req.SessionsLimit, Valid: true}
	}

	if err := s.planRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.logger.Info("plan created",
		zap.Int64("plan_id", p.ID),
		zap.String("name", p.Name),
		zap.String("duration_unit", string(p.DurationUnit)),
	)
	return p, nil
}

func (s *PlanService) Get(ctx context.Context, id int64) (*plan.Plan, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}
	return p, nil
}

func (s *PlanService) List(ctx context.Context, publicOnly bool) ([]plan.Plan, error) {
	return s.planRepo.List(ctx, publicOnly)
}

// Update applies a partial update. Duration fields are immutable once plans
// exist: changing cycle length would redefine every subscription already sold
// on the plan.
func (s *PlanService) Update(ctx context.Context, id int64, req *plan.UpdatePlanRequest) (*plan.Plan, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.SessionsLimit != nil {
		p.SessionsLimit = sql.NullInt32{Int32: *req.SessionsLimit, Valid: true}
	}
	if req.IsPublic != nil {
		p.IsPublic = *req.IsPublic
	}

	if err := s.planRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return p, nil
}

func (s *PlanService) UpdateStatus(ctx context.Context, id int64, status plan.PlanStatus) error {
	if status != plan.PlanStatusActive && status != plan.PlanStatusInactive {
		return xerrors.NewValidation("status", "status must be active or inactive")
	}
	if err := s.planRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}
	return nil
}
