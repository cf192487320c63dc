// internal/domain/admin/entity.go
package admin

import (
	"database/sql"
	"time"
)

type Admin struct {
	ID           int64        `json:"id" db:"id"`
	Email        string       `json:"email" db:"email"`
	FullName     string       `json:"full_name" db:"full_name"`
	PasswordHash string       `json:"-" db:"password_hash"`
	Role         string       `json:"role" db:"role"` // admin | super_admin
	IsActive     bool         `json:"is_active" db:"is_active"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Admin     *Admin `json:"admin"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin super_admin"`
}
