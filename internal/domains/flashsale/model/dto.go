package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateFlashSaleRequest struct {
	ProductID         uuid.UUID       `json:"product_id"`
	FlashSalePrice    decimal.Decimal `json:"flash_sale_price"`
	FlashSaleQuantity int             `json:"flash_sale_quantity"`
	StartAt           time.Time       `json:"start_at"`
	DueAt             time.Time       `json:"due_at"`
}

func (r CreateFlashSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.By(func(value interface{}) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.ErrRequired
			}
			return nil
		})),
		validation.Field(&r.FlashSalePrice, validation.By(func(value interface{}) error {
			if d, _ := value.(decimal.Decimal); d.IsNegative() {
				return validation.NewError("validation_min", "must be no less than 0")
			}
			return nil
		})),
		validation.Field(&r.FlashSaleQuantity, validation.Min(0)),
		validation.Field(&r.StartAt, validation.Required),
		validation.Field(&r.DueAt, validation.Required),
	)
}

type ListFlashSalesRequest struct {
	ProductID string `form:"product_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

func (r *ListFlashSalesRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// ProductUUID: nil khi không lọc theo sản phẩm hoặc id sai định dạng
func (r *ListFlashSalesRequest) ProductUUID() *uuid.UUID {
	id, err := uuid.Parse(r.ProductID)
	if err != nil {
		return nil
	}
	return &id
}

func (r *ListFlashSalesRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}
