// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"fmt"

	"kilofit-service/internal/domain/admin"
	xerrors "kilofit-service/internal/pkg/errors"
	"kilofit-service/internal/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AdminStore interface {
	Create(ctx context.Context, a *admin.Admin) error
	FindByEmail(ctx context.Context, email string) (*admin.Admin, error)
	FindByID(ctx context.Context, id int64) (*admin.Admin, error)
	TouchLogin(ctx context.Context, id int64) error
}

type AuthService struct {
	adminRepo AdminStore
	signer    *jwt.Signer
	logger    *zap.Logger
}

func NewAuthService(adminRepo AdminStore, signer *jwt.Signer, logger *zap.Logger) *AuthService {
	return &AuthService{adminRepo: adminRepo, signer: signer, logger: logger}
}

// Login verifies credentials and issues an access token. Lookup and password
// failures both collapse to ErrUnauthorized so the response never reveals
// whether the email exists.
func (s *AuthService) Login(ctx context.Context, req *admin.LoginRequest) (*admin.LoginResponse, error) {
	a, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
	}
	if !a.IsActive {
		return nil, fmt.Errorf("account disabled: %w", xerrors.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
	}

	token, expiresAt, err := s.signer.Generate(a.ID, a.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.adminRepo.TouchLogin(ctx, a.ID); err != nil {
		s.logger.Warn("failed to record login time", zap.Int64("admin_id", a.ID), zap.Error(err))
	}

	s.logger.Info("admin logged in", zap.Int64("admin_id", a.ID), zap.String("role", a.Role))

	return &admin.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Admin:     a,
	}, nil
}

// ValidateToken verifies an access token and confirms the admin still exists
// and is active.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, xerrors.ErrUnauthorized)
	}

	a, err := s.adminRepo.FindByID(ctx, claims.AdminID)
	if err != nil {
		return nil, fmt.Errorf("account not found: %w", xerrors.ErrUnauthorized)
	}
	if !a.IsActive {
		return nil, fmt.Errorf("account disabled: %w", xerrors.ErrUnauthorized)
	}

	return claims, nil
}

// CreateAdmin registers a new dashboard account.
func (s *AuthService) CreateAdmin(ctx context.Context, req *admin.CreateAdminRequest) (*admin.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "admin"
	}

	a := &admin.Admin{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin account created", zap.Int64("admin_id", a.ID), zap.String("role", role))
	return a, nil
}
