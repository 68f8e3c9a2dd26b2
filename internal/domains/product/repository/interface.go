package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/product/model"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error)
	List(ctx context.Context, req model.ListProductsRequest) ([]*model.Product, int64, error)
	// Update chỉ ghi sale_price khi salePrice != nil và sản phẩm không trong flash sale
	Update(ctx context.Context, p *model.Product, salePrice *decimal.Decimal) error
	UpdateImages(ctx context.Context, id uuid.UUID, thumbnail string, images []string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementStockByCode cộng tồn kho khi nhập hàng, trả ErrProductNotFound nếu sai mã
	IncrementStockByCode(ctx context.Context, code string, quantity int) (*model.Product, error)
}

// ImportRepository lưu trạng thái các phiếu nhập excel
type ImportRepository interface {
	Create(ctx context.Context, imp *model.ProductImport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductImport, error)
	List(ctx context.Context, limit, offset int) ([]*model.ProductImport, int64, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, imp *model.ProductImport) error
}
