// internal/domain/client/dto.go
package client

type CreateClientRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	FaceRef  string `json:"face_ref"`
	Notes    string `json:"notes"`
}

type UpdateClientRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	FaceRef  *string `json:"face_ref"`
	Notes    *string `json:"notes"`
}

type ClientListFilters struct {
	Status    *ClientStatus `form:"status"`
	Search    string        `form:"search"`
	Page      int           `form:"page"`
	PageSize  int           `form:"page_size"`
	SortBy    string        `form:"sort_by"`
	SortOrder string        `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type ClientListResponse struct {
	Clients    []Client `json:"clients"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}
