// internal/handlers/reward/reward_handler.go
package reward

import (
	"net/http"
	"strconv"

	"kilofit-service/internal/domain/reward"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/reward"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	rewardService *service.RewardService
}

func NewRewardHandler(rewardService *service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// GetConfig returns the active reward program configuration.
func (h *RewardHandler) GetConfig(c *gin.Context) {
	cfg := h.rewardService.Config(c.Request.Context())
	response.Success(c, http.StatusOK, "reward config retrieved", cfg)
}

// UpdateConfig stores a new configuration revision. Super admin only.
func (h *RewardHandler) UpdateConfig(c *gin.Context) {
	var req reward.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	cfg, err := h.rewardService.UpdateConfig(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to update reward config", err)
		return
	}

	response.Success(c, http.StatusOK, "reward config updated", cfg)
}

// Calculate runs the eligibility check for a subscription cycle.
func (h *RewardHandler) Calculate(c *gin.Context) {
	subscriptionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	result, err := h.rewardService.Calculate(c.Request.Context(), subscriptionID)
	if err != nil {
		response.FromError(c, "failed to calculate reward", err)
		return
	}

	response.Success(c, http.StatusOK, "reward calculated", result)
}

// GetSituation reports the reward lifecycle state for a subscription.
func (h *RewardHandler) GetSituation(c *gin.Context) {
	subscriptionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	result, err := h.rewardService.Situation(c.Request.Context(), subscriptionID)
	if err != nil {
		response.FromError(c, "failed to derive reward state", err)
		return
	}

	response.Success(c, http.StatusOK, "reward state retrieved", result)
}

// ListBySubscription lists the rewards earned by one subscription cycle.
func (h *RewardHandler) ListBySubscription(c *gin.Context) {
	subscriptionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	result, err := h.rewardService.RewardsFor(c.Request.Context(), subscriptionID)
	if err != nil {
		response.FromError(c, "failed to list rewards", err)
		return
	}

	response.Success(c, http.StatusOK, "rewards retrieved", result)
}

// ListAvailable lists a client's pending, unexpired rewards.
func (h *RewardHandler) ListAvailable(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.rewardService.AvailableFor(c.Request.Context(), clientID)
	if err != nil {
		response.FromError(c, "failed to list available rewards", err)
		return
	}

	response.Success(c, http.StatusOK, "available rewards retrieved", result)
}

// Apply consumes a pending reward against a renewal subscription.
func (h *RewardHandler) Apply(c *gin.Context) {
	rewardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid reward ID", err)
		return
	}

	var req reward.ApplyRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.rewardService.Apply(c.Request.Context(), rewardID, &req)
	if err != nil {
		response.FromError(c, "failed to apply reward", err)
		return
	}

	response.Success(c, http.StatusOK, "reward applied successfully", result)
}
