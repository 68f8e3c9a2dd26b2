package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlashSale ghi đè giá bán + tồn kho của một sản phẩm trong [StartAt, DueAt].
// Previous* là snapshot để khôi phục khi kết thúc
type FlashSale struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	FlashSalePrice    decimal.Decimal `json:"flash_sale_price"`
	FlashSaleQuantity int             `json:"flash_sale_quantity"`
	PreviousPrice     decimal.Decimal `json:"previous_price"`
	PreviousQuantity  int             `json:"previous_quantity"`
	StartAt           time.Time       `json:"start_at"`
	DueAt             time.Time       `json:"due_at"`
	CreatedAt         time.Time       `json:"created_at"`

	// Active: đang được product trỏ tới (current_flash_sale_id)
	Active  bool            `json:"active"`
	Product *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Code            string          `json:"code"`
	Slug            string          `json:"slug"`
	ListedPrice     decimal.Decimal `json:"listed_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	// CurrentFlashSaleID != nil: đang có flash sale chạy
	CurrentFlashSaleID *uuid.UUID `json:"current_flash_sale_id,omitempty"`
}

// Overlaps: hai khoảng đóng [StartAt, DueAt] và [start, due] giao nhau
func (f *FlashSale) Overlaps(start, due time.Time) bool {
	return !due.Before(f.StartAt) && !start.After(f.DueAt)
}

// NotifyAt: StartAt - lead, không sớm hơn now
func (f *FlashSale) NotifyAt(lead time.Duration, now time.Time) time.Time {
	at := f.StartAt.Add(-lead)
	if at.Before(now) {
		return now
	}
	return at
}

// ApplyActivation snapshot lại giá/tồn kho hiện tại của sản phẩm và cap giá,
// số lượng flash sale không vượt quá giá trị hiện tại
func (f *FlashSale) ApplyActivation(salePrice decimal.Decimal, stock int) {
	f.PreviousPrice = salePrice
	f.PreviousQuantity = stock
	if f.FlashSalePrice.GreaterThan(salePrice) {
		f.FlashSalePrice = salePrice
	}
	if f.FlashSaleQuantity > stock {
		f.FlashSaleQuantity = stock
	}
	if f.FlashSaleQuantity < 0 {
		f.FlashSaleQuantity = 0
	}
}

// RestoreDelta: lượng cộng lại vào tồn kho khi kết thúc. Dùng increment
// thay vì set để giữ đúng số đã bán trong thời gian flash sale
func (f *FlashSale) RestoreDelta() int {
	return f.PreviousQuantity - f.FlashSaleQuantity
}
