package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/domains/order/model"
	paymentModel "shop-backend/internal/domains/payment/model"
)

// =====================================================
// ORDER REPOSITORY INTERFACE
// =====================================================
type OrderRepository interface {
	// WithTx chạy fn trong một transaction, fn trả error thì rollback
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, req model.ListOrdersRequest) ([]*model.Order, int64, error)
	ListForExport(ctx context.Context, from, to time.Time, status model.OrderStatus) ([]*model.Order, error)

	// UpdateStatus chỉ update khi status hiện tại thuộc from, ngược lại ErrStatusChanged
	UpdateStatus(ctx context.Context, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus) error

	// RateDetail chỉ khi order Completed, thuộc user và detail chưa rate
	RateDetail(ctx context.Context, userID, orderID, productID uuid.UUID, stars int, content *string) error
}

// TxRepository các thao tác chạy trong transaction của order
type TxRepository interface {
	// DecrementStock: quantity_in_stock -= qty, sold += qty, RETURNING giá + tồn kho sau update.
	// Không check âm ở đây, service quyết định rollback
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (*model.StockLine, error)
	RestoreStock(ctx context.Context, productID uuid.UUID, qty int) error

	// RedeemVoucher trừ remain_quantity và upsert voucher_users -> Used.
	// ErrVoucherUnavailable nếu hết lượt hoặc user đã dùng
	RedeemVoucher(ctx context.Context, voucherID, userID uuid.UUID) error

	// InsertOrder insert order + details + payment, điền ID/CreatedAt
	InsertOrder(ctx context.Context, order *model.Order) error

	// FindForUpdate khoá dòng order (SELECT ... FOR UPDATE) kèm details + payment
	FindForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus, cancelReason *string) error
	SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status paymentModel.PaymentStatus) error
}
