// internal/handlers/plan/plan_handler.go
package plan

import (
	"net/http"
	"strconv"

	"kilofit-service/internal/domain/plan"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlan creates a membership plan.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req plan.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.planService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create plan", err)
		return
	}

	response.Success(c, http.StatusCreated, "plan created successfully", result)
}

// GetPlan retrieves a plan by ID.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	result, err := h.planService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "plan not found", err)
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", result)
}

// ListPlans retrieves plans; ?public=true narrows to publicly listed ones.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	publicOnly := c.Query("public") == "true"

	result, err := h.planService.List(c.Request.Context(), publicOnly)
	if err != nil {
		response.FromError(c, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", result)
}

// UpdatePlan applies a partial update to a plan.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	var req plan.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.planService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan updated successfully", result)
}

// UpdatePlanStatus activates or retires a plan.
func (h *PlanHandler) UpdatePlanStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	var req struct {
		Status plan.PlanStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.planService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		response.FromError(c, "failed to update plan status", err)
		return
	}

	response.Success(c, http.StatusOK, "plan status updated", nil)
}
