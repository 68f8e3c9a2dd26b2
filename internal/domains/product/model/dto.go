package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Code            string          `json:"code"` // rỗng → tự sinh
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ListedPrice     decimal.Decimal `json:"listed_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	QuantityInStock int             `json:"quantity_in_stock"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Length(0, 50)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.ListedPrice, validation.By(nonNegative)),
		validation.Field(&r.SalePrice, validation.By(nonNegative), validation.By(notAbove(r.ListedPrice))),
		validation.Field(&r.QuantityInStock, validation.Min(0)),
	)
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	ListedPrice *decimal.Decimal `json:"listed_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	IsActive    *bool            `json:"is_active"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.ListedPrice, validation.By(nonNegative)),
		validation.Field(&r.SalePrice, validation.By(nonNegative)),
	)
}

// RestockRequest nhập thêm hàng cho một sản phẩm
type RestockRequest struct {
	Quantity    int             `json:"quantity"`
	ImportPrice decimal.Decimal `json:"import_price"`
	Description string          `json:"description"`
}

func (r RestockRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.ImportPrice, validation.By(nonNegative)),
	)
}

// Sort fields cho list
const (
	SortByName        = "name"
	SortByListedPrice = "listed_price"
	SortBySalePrice   = "sale_price"
	SortByCreatedAt   = "created_at"
	SortByUpdatedAt   = "updated_at"
)

type ListProductsRequest struct {
	Keyword string `form:"keyword"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	SortBy  string `form:"sort_by"`
	Order   string `form:"order"`

	// Admin thấy cả sản phẩm inactive
	IncludeInactive bool `form:"-"`
}

func (r *ListProductsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 10
	}
	switch r.SortBy {
	case SortByName, SortByListedPrice, SortBySalePrice, SortByCreatedAt, SortByUpdatedAt:
	default:
		r.SortBy = SortByCreatedAt
	}
	if strings.ToLower(r.Order) == "asc" {
		r.Order = "ASC"
	} else {
		r.Order = "DESC"
	}
}

func (r *ListProductsRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ImportTemplateRequest: productIds để điền sẵn mã/tên vào form
type ImportTemplateRequest struct {
	ProductIDs []string `form:"product_ids"`
}

func nonNegative(value interface{}) error {
	d, ok := toDecimal(value)
	if ok && d.IsNegative() {
		return validation.NewError("validation_non_negative", "must not be negative")
	}
	return nil
}

func notAbove(limit decimal.Decimal) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := toDecimal(value)
		if ok && d.GreaterThan(limit) {
			return validation.NewError("validation_sale_price", "must not exceed listed price")
		}
		return nil
	}
}

func toDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	}
	return decimal.Zero, false
}
