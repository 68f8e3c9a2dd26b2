package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product là bản ghi tồn kho. QuantityInStock bị order và flash sale
// thay đổi trong transaction, không bao giờ âm sau commit
type Product struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images"`
	ListedPrice        decimal.Decimal `json:"listed_price"`
	SalePrice          decimal.Decimal `json:"sale_price"`
	QuantityInStock    int             `json:"quantity_in_stock"`
	Sold               int             `json:"sold"`
	CurrentFlashSaleID *uuid.UUID      `json:"current_flash_sale_id,omitempty"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (p *Product) InFlashSale() bool {
	return p.CurrentFlashSaleID != nil
}

// ========================================
// IMPORT (phiếu nhập hàng từ file excel)
// ========================================

const (
	ImportStatusPending    = "pending"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

type ProductImport struct {
	ID          uuid.UUID        `json:"id"`
	FileName    string           `json:"file_name"`
	ObjectKey   string           `json:"-"`
	Sheet       string           `json:"sheet"`
	Status      string           `json:"status"`
	TotalRows   int              `json:"total_rows"`
	SuccessRows int              `json:"success_rows"`
	FailedRows  int              `json:"failed_rows"`
	Errors      []ImportRowError `json:"errors"`
	ResultKey   *string          `json:"result_key,omitempty"`
	CreatedBy   *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// ImportRow là một dòng dữ liệu trong phiếu nhập
type ImportRow struct {
	Row         int             `json:"row"`
	Order       string          `json:"order"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	ImportPrice decimal.Decimal `json:"import_price"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportRowResult dùng để build file kết quả
type ImportRowResult struct {
	ImportRow
	Success bool
	Message string
}
