// internal/service/client/client_service.go
package client

import (
	"context"
	"database/sql"
	"fmt"

	"kilofit-service/internal/domain/client"
	xerrors "kilofit-service/internal/pkg/errors"
	"kilofit-service/internal/pkg/ref"

	"go.uber.org/zap"
)

type ClientStore interface {
	Create(ctx context.Context, c *client.Client) error
	FindByID(ctx context.Context, id int64) (*client.Client, error)
	FindByPhone(ctx context.Context, phone string) (*client.Client, error)
	Update(ctx context.Context, c *client.Client) error
	UpdateStatus(ctx context.Context, id int64, status client.ClientStatus) error
	List(ctx context.Context, filters *client.ClientListFilters) ([]client.Client, int64, error)
	GetStats(ctx context.Context) (*client.ClientStats, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error)
}

type ClientService struct {
	clientRepo ClientStore
	logger     *zap.Logger
}

func NewClientService(clientRepo ClientStore, logger *zap.Logger) *ClientService {
	return &ClientService{clientRepo: clientRepo, logger: logger}
}

// Create registers a new gym member. Phone numbers are unique across members.
func (s *ClientService) Create(ctx context.Context, req *client.CreateClientRequest) (*client.Client, error) {
	exists, err := s.clientRepo.ExistsByPhone(ctx, req.Phone, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("phone number already registered: %w", xerrors.ErrConflict)
	}

	c := &client.Client{
		Reference: ref.New("CLT"),
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     nullString(req.Email),
		FaceRef:   nullString(req.FaceRef),
		Notes:     nullString(req.Notes),
		Status:    client.ClientStatusActive,
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created", zap.Int64("client_id", c.ID), zap.String("reference", c.Reference))
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}
	return c, nil
}

// Update applies a partial update; nil fields are left untouched.
func (s *ClientService) Update(ctx context.Context, id int64, req *client.UpdateClientRequest) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	if req.Phone != nil && *req.Phone != c.Phone {
		exists, err := s.clientRepo.ExistsByPhone(ctx, *req.Phone, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("phone number already registered: %w", xerrors.ErrConflict)
		}
		c.Phone = *req.Phone
	}

	if req.FullName != nil {
		c.FullName = *req.FullName
	}
	if req.Email != nil {
		c.Email = nullString(*req.Email)
	}
	if req.FaceRef != nil {
		c.FaceRef = nullString(*req.FaceRef)
	}
	if req.Notes != nil {
		c.Notes = nullString(*req.Notes)
	}

	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return c, nil
}

func (s *ClientService) UpdateStatus(ctx context.Context, id int64, status client.ClientStatus) error {
	if status != client.ClientStatusActive && status != client.ClientStatusInactive {
		return xerrors.NewValidation("status", "status must be active or inactive")
	}
	if err := s.clientRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update client status: %w", err)
	}
	return nil
}

func (s *ClientService) List(ctx context.Context, filters *client.ClientListFilters) (*client.ClientListResponse, error) {
	clients, total, err := s.clientRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &client.ClientListResponse{
		Clients:    clients,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *ClientService) Stats(ctx context.Context) (*client.ClientStats, error) {
	return s.clientRepo.GetStats(ctx)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
