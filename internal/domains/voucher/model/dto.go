package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateGeneralVoucherRequest struct {
	CustomCode    string           `json:"custom_code"`
	ValueDiscount decimal.Decimal  `json:"value_discount"`
	Unit          VoucherUnit      `json:"unit"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	MinOrderPrice *decimal.Decimal `json:"min_order_price"`
	Quantity      int              `json:"quantity"`
	Description   string           `json:"description"`
	StartAt       time.Time        `json:"start_at"`
	DueAt         time.Time        `json:"due_at"`
}

func (r CreateGeneralVoucherRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomCode, validation.Length(0, 50), is.Alphanumeric),
		validation.Field(&r.ValueDiscount, validation.By(positive)),
		validation.Field(&r.Unit, validation.By(validUnit)),
		validation.Field(&r.MaxDiscount, validation.By(positive)),
		validation.Field(&r.MinOrderPrice, validation.By(positive)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.StartAt, validation.Required),
		validation.Field(&r.DueAt, validation.Required, validation.By(notBefore(r.StartAt))),
	)
}

type CreatePersonalVoucherRequest struct {
	CustomCode     string           `json:"custom_code"`
	ValueDiscount  decimal.Decimal  `json:"value_discount"`
	Unit           VoucherUnit      `json:"unit"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	MinOrderPrice  *decimal.Decimal `json:"min_order_price"`
	Description    string           `json:"description"`
	StartAt        time.Time        `json:"start_at"`
	DueAt          time.Time        `json:"due_at"`
	VoucherUserIDs []uuid.UUID      `json:"voucher_user_ids"`
}

func (r CreatePersonalVoucherRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomCode, validation.Length(0, 50), is.Alphanumeric),
		validation.Field(&r.ValueDiscount, validation.By(positive)),
		validation.Field(&r.Unit, validation.By(validUnit)),
		validation.Field(&r.MaxDiscount, validation.By(positive)),
		validation.Field(&r.MinOrderPrice, validation.By(positive)),
		validation.Field(&r.StartAt, validation.Required),
		validation.Field(&r.DueAt, validation.Required, validation.By(notBefore(r.StartAt))),
		validation.Field(&r.VoucherUserIDs, validation.Required, validation.Length(1, 0)),
	)
}

type ListVouchersRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListVouchersRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

func positive(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}
	if !d.IsPositive() {
		return validation.NewError("validation_positive", "must be greater than 0")
	}
	return nil
}

func validUnit(value interface{}) error {
	u, _ := value.(VoucherUnit)
	if u != "" && !u.IsValid() {
		return validation.NewError("validation_unit", "must be Percent or Money")
	}
	return nil
}

func notBefore(start time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		t, _ := value.(time.Time)
		if t.Before(start) {
			return validation.NewError("validation_due_at", "must not be before start_at")
		}
		return nil
	}
}
