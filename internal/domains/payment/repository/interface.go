package repository

import (
	"context"

	"github.com/google/uuid"

	"shop-backend/internal/domains/payment/model"
)

type PaymentRepository interface {
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.OrderPayment, error)
	// FindTargetByOrderCode join orders để lấy amount + status phục vụ callback
	FindTargetByOrderCode(ctx context.Context, orderCode string) (*model.PaymentTarget, error)

	SetPaymentCode(ctx context.Context, orderID uuid.UUID, paymentCode string) error

	// Complete chỉ update khi payment chưa Completed/Refunded và order chưa Canceled.
	// false nghĩa là đã xử lý trước đó (duplicate callback)
	Complete(ctx context.Context, in model.CompletePayment) (bool, error)
	MarkRefunded(ctx context.Context, orderID uuid.UUID, refundTransactionNo string) error

	LogCallback(ctx context.Context, log *model.CallbackLog) error
}
