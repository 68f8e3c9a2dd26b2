package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/domains/flashsale/model"
)

// CreateCheck chạy trong transaction với product đã bị lock,
// existing là các flash sale hiện có của product
type CreateCheck func(product *model.ProductSummary, existing []*model.FlashSale) error

type FlashSaleRepository interface {
	// Create khoá product (FOR UPDATE), gọi check rồi insert với snapshot giá/tồn kho hiện tại
	Create(ctx context.Context, fs *model.FlashSale, check CreateCheck) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FlashSale, error)
	List(ctx context.Context, productID *uuid.UUID, limit, offset int) ([]*model.FlashSale, int64, error)
	ListActive(ctx context.Context) ([]*model.FlashSale, error)

	// Activate trả false khi flash sale không còn hoặc product đang có flash sale khác
	Activate(ctx context.Context, id uuid.UUID) (bool, error)
	// Deactivate khôi phục product (nếu đang link) và xoá flash sale.
	// false khi flash sale không còn tồn tại
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)

	// Recovery: timer bị lỡ khi worker down
	ListPendingActivations(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	ListExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}
