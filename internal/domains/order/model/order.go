package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paymentModel "shop-backend/internal/domains/payment/model"
)

// =====================================================
// ORDER STATUS
// =====================================================

type OrderStatus string

const (
	OrderStatusWaiting   OrderStatus = "Waiting"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipping  OrderStatus = "Shipping"
	OrderStatusUnclaimed OrderStatus = "Unclaimed"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCanceled  OrderStatus = "Canceled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusWaiting, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusUnclaimed, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// transitions: trạng thái đích -> các trạng thái nguồn hợp lệ (admin).
// Canceled không nằm ở đây, xem CanBeCanceledByAdmin / CanBeCanceledByUser
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusConfirmed: {OrderStatusWaiting},
	OrderStatusShipping:  {OrderStatusConfirmed},
	OrderStatusUnclaimed: {OrderStatusShipping},
	OrderStatusCompleted: {OrderStatusShipping, OrderStatusUnclaimed},
}

// AllowedFrom trả các trạng thái có thể chuyển sang next
func AllowedFrom(next OrderStatus) []OrderStatus {
	return transitions[next]
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, from := range transitions[next] {
		if from == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) CanBeCanceledByUser() bool {
	return s == OrderStatusWaiting
}

func (s OrderStatus) CanBeCanceledByAdmin() bool {
	return s != OrderStatusCompleted && s != OrderStatusCanceled
}

// CancelableStatuses dùng trong điều kiện UPDATE của admin cancel
var CancelableStatuses = []OrderStatus{
	OrderStatusWaiting, OrderStatusConfirmed, OrderStatusShipping, OrderStatusUnclaimed,
}

// =====================================================
// ENTITIES
// =====================================================

type Order struct {
	ID               uuid.UUID                  `json:"id"`
	Code             string                     `json:"code"`
	UserID           uuid.UUID                  `json:"user_id"`
	VoucherID        *uuid.UUID                 `json:"voucher_id,omitempty"`
	VoucherCode      *string                    `json:"voucher_code,omitempty"`
	ReceiverName     string                     `json:"receiver_name"`
	OrderPhone       string                     `json:"order_phone"`
	OrderAddress     string                     `json:"order_address"`
	OrderAddressType string                     `json:"order_address_type"`
	Reminder         string                     `json:"reminder"`
	Status           OrderStatus                `json:"status"`
	OrderTotalPrice  decimal.Decimal            `json:"order_total_price"`
	OrderDiscount    decimal.Decimal            `json:"order_discount"`
	OrderFinalPrice  decimal.Decimal            `json:"order_final_price"`
	CancelReason     *string                    `json:"cancel_reason,omitempty"`
	Details          []OrderDetail              `json:"order_details,omitempty"`
	Payment          *paymentModel.OrderPayment `json:"order_payment,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

func (o *Order) IsOnline() bool {
	return o.Payment != nil && o.Payment.PaymentMethod == paymentModel.PaymentMethodOnline
}

func (o *Order) PaymentStatus() paymentModel.PaymentStatus {
	if o.Payment == nil {
		return ""
	}
	return o.Payment.Status
}

// OrderDetail snapshot giá tại thời điểm đặt, không đổi về sau
type OrderDetail struct {
	ID                 uuid.UUID       `json:"id"`
	OrderID            uuid.UUID       `json:"order_id"`
	ProductID          uuid.UUID       `json:"product_id"`
	ProductName        string          `json:"product_name"`
	ProductCode        string          `json:"product_code"`
	Quantity           int             `json:"quantity"`
	CurrentListedPrice decimal.Decimal `json:"current_listed_price"`
	CurrentSalePrice   decimal.Decimal `json:"current_sale_price"`
	RatingStar         *int            `json:"rating_star,omitempty"`
	RatingContent      *string         `json:"rating_content,omitempty"`
	RatedAt            *time.Time      `json:"rated_at,omitempty"`
}

func (d *OrderDetail) LineTotal() decimal.Decimal {
	return d.CurrentSalePrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// StockLine kết quả UPDATE ... RETURNING khi trừ kho
type StockLine struct {
	ProductID       uuid.UUID
	Name            string
	Code            string
	ListedPrice     decimal.Decimal
	SalePrice       decimal.Decimal
	QuantityInStock int
	Quantity        int // số lượng đặt
}

// =====================================================
// CANCEL RESULT
// =====================================================

// CancelResult: refund thất bại không phải lỗi, chỉ thể hiện qua message
type CancelResult struct {
	Message  string `json:"message"`
	Refunded bool   `json:"refunded"`
}
