// internal/handlers/client/client_handler.go
package client

import (
	"net/http"
	"strconv"

	"kilofit-service/internal/domain/client"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/client"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClient registers a new member.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.clientService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create client", err)
		return
	}

	response.Success(c, http.StatusCreated, "client created successfully", result)
}

// GetClient retrieves a member by ID.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.clientService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "client not found", err)
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result)
}

// UpdateClient applies a partial update to a member.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.clientService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update client", err)
		return
	}

	response.Success(c, http.StatusOK, "client updated successfully", result)
}

// UpdateClientStatus activates or deactivates a member.
func (h *ClientHandler) UpdateClientStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req struct {
		Status client.ClientStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.clientService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		response.FromError(c, "failed to update client status", err)
		return
	}

	response.Success(c, http.StatusOK, "client status updated", nil)
}

// ListClients retrieves members with filters and paging.
func (h *ClientHandler) ListClients(c *gin.Context) {
	var filters client.ClientListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.clientService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list clients", err)
		return
	}

	response.Success(c, http.StatusOK, "clients retrieved", result)
}

// GetClientStats retrieves membership aggregates.
func (h *ClientHandler) GetClientStats(c *gin.Context) {
	result, err := h.clientService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to fetch client stats", err)
		return
	}

	response.Success(c, http.StatusOK, "client stats retrieved", result)
}
