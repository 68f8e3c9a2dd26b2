package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	paymentModel "shop-backend/internal/domains/payment/model"
)

// =====================================================
// CREATE ORDER
// =====================================================

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (r OrderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.By(notNilUUID)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateOrderRequest struct {
	Products         []OrderItemRequest         `json:"products"`
	VoucherCode      string                     `json:"voucher_code"`
	PaymentMethod    paymentModel.PaymentMethod `json:"payment_method"`
	ReceiverName     string                     `json:"receiver_name"`
	OrderPhone       string                     `json:"order_phone"`
	OrderAddress     string                     `json:"order_address"`
	OrderAddressType string                     `json:"order_address_type"`
	Reminder         string                     `json:"reminder"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Products, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.VoucherCode, validation.Length(0, 50)),
		validation.Field(&r.PaymentMethod, validation.Required,
			validation.In(paymentModel.PaymentMethodCOD, paymentModel.PaymentMethodOnline)),
		validation.Field(&r.ReceiverName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.OrderPhone, validation.Required, validation.Length(9, 20), is.Digit),
		validation.Field(&r.OrderAddress, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.OrderAddressType, validation.In("Home", "Office")),
		validation.Field(&r.Reminder, validation.Length(0, 1000)),
	)
}

// =====================================================
// LIST
// =====================================================

type ListOrdersRequest struct {
	Status OrderStatus `form:"status"`
	Page   int         `form:"page"`
	Limit  int         `form:"limit"`
	// set bởi handler
	UserID *uuid.UUID `form:"-"`
}

func (r *ListOrdersRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 10
	}
	if r.Status != "" && !r.Status.IsValid() {
		r.Status = ""
	}
}

func (r *ListOrdersRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ExportOrdersRequest xuất đơn hàng trong khoảng thời gian ra xlsx
type ExportOrdersRequest struct {
	From   time.Time   `form:"from" time_format:"2006-01-02"`
	To     time.Time   `form:"to" time_format:"2006-01-02"`
	Status OrderStatus `form:"status"`
}

func (r ExportOrdersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required, validation.Min(r.From)),
	)
}

// =====================================================
// LIFECYCLE
// =====================================================

type AdminCancelRequest struct {
	Reason string `json:"reason"`
}

func (r AdminCancelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 1000)),
	)
}

type RatingRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Stars     int       `json:"stars"`
	Content   *string   `json:"content"`
}

func (r RatingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.By(notNilUUID)),
		validation.Field(&r.Stars, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Content, validation.NilOrNotEmpty, validation.Length(0, 2000)),
	)
}

type PayOnlineResponse struct {
	PaymentURL string    `json:"payment_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func notNilUUID(value interface{}) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return validation.ErrRequired
	}
	return nil
}
