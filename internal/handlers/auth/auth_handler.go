// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"kilofit-service/internal/domain/admin"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an admin and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// CreateAdmin registers a new dashboard account. Super admin only.
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req admin.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create admin", err)
		return
	}

	response.Success(c, http.StatusCreated, "admin created successfully", result)
}
