// internal/domain/attendance/entity.go
package attendance

import "time"

type Attendance struct {
	ID       int64     `json:"id" db:"id"`
	ClientID int64     `json:"client_id" db:"client_id"`
	CheckIn  time.Time `json:"check_in" db:"check_in"`

	// Source records how the check-in was captured (front desk, face scan).
	Source string `json:"source" db:"source"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CheckInRequest struct {
	ClientID int64  `json:"client_id" binding:"required"`
	Source   string `json:"source" binding:"omitempty,oneof=desk face"`
}

type AttendanceListFilters struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
