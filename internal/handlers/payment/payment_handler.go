// internal/handlers/payment/payment_handler.go
package payment

import (
	"net/http"

	"kilofit-service/internal/domain/payment"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ListPayments retrieves the payment ledger with filters.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var filters payment.PaymentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list payments", err)
		return
	}

	response.Success(c, http.StatusOK, "payments retrieved", gin.H{
		"payments": payments,
		"total":    total,
	})
}
