// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"net/http"
	"strconv"

	"kilofit-service/internal/domain/subscription"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// CreateSubscription starts a new subscription for a client.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Create(c.Request.Context(), clientID, &req)
	if err != nil {
		response.FromError(c, "failed to create subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription created successfully", result)
}

// GetSubscription retrieves a subscription by ID.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	result, err := h.subscriptionService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "subscription not found", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", result)
}

// ListSubscriptions retrieves subscriptions with filters.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	var filters subscription.SubscriptionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.subscriptionService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// ListClientSubscriptions retrieves a client's subscription history.
func (h *SubscriptionHandler) ListClientSubscriptions(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.subscriptionService.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// GetActiveSubscription retrieves a client's current active subscription.
func (h *SubscriptionHandler) GetActiveSubscription(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.subscriptionService.ActiveByClient(c.Request.Context(), clientID)
	if err != nil {
		response.FromError(c, "no active subscription found", err)
		return
	}

	response.Success(c, http.StatusOK, "active subscription retrieved", result)
}

// CheckRenewable reports whether the renewal workflow may start for a
// subscription; the gate reason drives the disabled confirm control.
func (h *SubscriptionHandler) CheckRenewable(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	result, err := h.subscriptionService.CheckRenewableByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "subscription not found", err)
		return
	}

	response.Success(c, http.StatusOK, "renewability checked", result)
}

// RenewSubscription runs the renewal workflow. A committed renewal whose
// reward step failed is still a success, reported with a warning.
func (h *SubscriptionHandler) RenewSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	var req subscription.RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Renew(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to renew subscription", err)
		return
	}

	if result.RewardWarning != "" {
		response.SuccessWithWarning(c, "subscription renewed successfully", result.RewardWarning, result)
		return
	}

	response.Success(c, http.StatusOK, "subscription renewed successfully", result)
}

// CancelSubscription cancels a subscription immediately.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	var req subscription.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), id, &req); err != nil {
		response.FromError(c, "failed to cancel subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription canceled successfully", nil)
}

// ExpireAll flips every overdue active subscription to expired.
func (h *SubscriptionHandler) ExpireAll(c *gin.Context) {
	result, err := h.subscriptionService.ExpireAll(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to expire subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "overdue subscriptions expired", result)
}

// ActivateAll flips scheduled subscriptions whose start date has arrived.
func (h *SubscriptionHandler) ActivateAll(c *gin.Context) {
	result, err := h.subscriptionService.ActivateAll(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to activate subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "due subscriptions activated", result)
}

// GetExpiring lists active subscriptions ending soon.
func (h *SubscriptionHandler) GetExpiring(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))

	result, err := h.subscriptionService.GetExpiring(c.Request.Context(), days)
	if err != nil {
		response.FromError(c, "failed to list expiring subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "expiring subscriptions retrieved", result)
}

// GetStats aggregates subscription counts and revenue.
func (h *SubscriptionHandler) GetStats(c *gin.Context) {
	result, err := h.subscriptionService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to fetch subscription stats", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription stats retrieved", result)
}

// GetPaymentStats aggregates payments for one subscription.
func (h *SubscriptionHandler) GetPaymentStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	result, err := h.subscriptionService.PaymentStats(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to fetch payment stats", err)
		return
	}

	response.Success(c, http.StatusOK, "payment stats retrieved", result)
}
