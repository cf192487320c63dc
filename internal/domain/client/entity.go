// internal/domain/client/entity.go
package client

import (
	"database/sql"
	"time"
)

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

type Client struct {
	ID        int64          `json:"id" db:"id"`
	Reference string         `json:"reference" db:"reference"`
	FullName  string         `json:"full_name" db:"full_name"`
	Phone     string         `json:"phone" db:"phone"`
	Email     sql.NullString `json:"email,omitempty" db:"email"`

	// Opaque identifier issued by the facial-recognition service. Stored
	// and echoed back only; matching happens externally.
	FaceRef sql.NullString `json:"face_ref,omitempty" db:"face_ref"`

	Status    ClientStatus   `json:"status" db:"status"`
	Notes     sql.NullString `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

type ClientStats struct {
	TotalClients    int64 `json:"total_clients"`
	ActiveClients   int64 `json:"active_clients"`
	InactiveClients int64 `json:"inactive_clients"`
	NewThisMonth    int64 `json:"new_this_month"`
}
