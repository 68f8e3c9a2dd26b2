package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/domains/order/model"
	voucherModel "shop-backend/internal/domains/voucher/model"
)

// =====================================================
// ORDER SERVICE INTERFACE
// =====================================================
type OrderService interface {
	// User
	CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error)
	PayOnline(ctx context.Context, userID, orderID uuid.UUID, ipAddr string) (*model.PayOnlineResponse, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, req model.ListOrdersRequest) ([]*model.Order, int64, error)
	GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	CancelMyOrder(ctx context.Context, userID, orderID uuid.UUID, ipAddr string) (*model.CancelResult, error)
	RateOrderDetail(ctx context.Context, userID, orderID uuid.UUID, req model.RatingRequest) error

	// Admin
	ListOrders(ctx context.Context, req model.ListOrdersRequest) ([]*model.Order, int64, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	Confirm(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	Ship(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	Complete(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	Unclaim(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	AdminCancel(ctx context.Context, adminID, orderID uuid.UUID, req model.AdminCancelRequest, ipAddr string) (*model.CancelResult, error)
	ExportOrders(ctx context.Context, req model.ExportOrdersRequest) ([]byte, error)
}

// VoucherValidator là phần của voucher service mà order cần
type VoucherValidator interface {
	ValidateForUser(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*voucherModel.Voucher, error)
}

// CartCleaner xoá các sản phẩm đã đặt khỏi giỏ hàng (cart domain implement)
type CartCleaner interface {
	RemoveItems(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
}
