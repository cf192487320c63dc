// internal/domain/plan/entity.go
package plan

import (
	"database/sql"
	"time"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// DurationUnit classifies a plan's cycle length. The reward program only
// admits units listed in the reward configuration's eligible set.
type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

type Plan struct {
	ID            int64          `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   sql.NullString `json:"description,omitempty" db:"description"`
	DurationCount int            `json:"duration_count" db:"duration_count"`
	DurationUnit  DurationUnit   `json:"duration_unit" db:"duration_unit"`
	Price         float64        `json:"price" db:"price"`

	// SessionsLimit caps check-ins per cycle; NULL means unlimited.
	SessionsLimit sql.NullInt32 `json:"sessions_limit,omitempty" db:"sessions_limit"`

	Status    PlanStatus `json:"status" db:"status"`
	IsPublic  bool       `json:"is_public" db:"is_public"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// PeriodEnd computes the end of a cycle starting at start.
func (p *Plan) PeriodEnd(start time.Time) time.Time {
	switch p.DurationUnit {
	case UnitDay:
		return start.AddDate(0, 0, p.DurationCount)
	case UnitWeek:
		return start.AddDate(0, 0, 7*p.DurationCount)
	case UnitMonth:
		return start.AddDate(0, p.DurationCount, 0)
	case UnitYear:
		return start.AddDate(p.DurationCount, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}
