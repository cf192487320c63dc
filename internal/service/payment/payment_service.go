// internal/service/payment/payment_service.go
package payment

import (
	"context"
	"fmt"

	"kilofit-service/internal/domain/payment"

	"go.uber.org/zap"
)

type PaymentStore interface {
	List(ctx context.Context, filters *payment.PaymentListFilters) ([]payment.Payment, int64, error)
}

type PaymentService struct {
	paymentRepo PaymentStore
	logger      *zap.Logger
}

func NewPaymentService(paymentRepo PaymentStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, logger: logger}
}

// List retrieves recorded payments with filters. Payments are written only by
// the subscription workflows; this is the read surface for the ledger.
func (s *PaymentService) List(ctx context.Context, filters *payment.PaymentListFilters) ([]payment.Payment, int64, error) {
	payments, total, err := s.paymentRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}
