package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart được dựng lại mỗi lần đọc từ Redis hash + giá hiện tại của product
type Cart struct {
	Items         []*CartItem     `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

type CartItem struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Thumbnail       string          `json:"thumbnail"`
	ListedPrice     decimal.Decimal `json:"listed_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	InFlashSale     bool            `json:"in_flash_sale"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// NewCart tính tổng theo sale price hiện tại
func NewCart(items []*CartItem) *Cart {
	c := &Cart{Items: items, TotalPrice: decimal.Zero}
	for _, item := range items {
		item.Subtotal = item.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		c.TotalQuantity += item.Quantity
		c.TotalPrice = c.TotalPrice.Add(item.Subtotal)
	}
	return c
}
