// internal/domain/plan/dto.go
package plan

type CreatePlanRequest struct {
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description"`
	DurationCount int          `json:"duration_count" binding:"required,min=1"`
	DurationUnit  DurationUnit `json:"duration_unit" binding:"required,oneof=day week month year"`
	Price         float64      `json:"price" binding:"required,min=0"`
	SessionsLimit *int32       `json:"sessions_limit" binding:"omitempty,min=1"`
	IsPublic      bool         `json:"is_public"`
}

type UpdatePlanRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,min=0"`
	SessionsLimit *int32   `json:"sessions_limit" binding:"omitempty,min=1"`
	IsPublic      *bool    `json:"is_public"`
}
