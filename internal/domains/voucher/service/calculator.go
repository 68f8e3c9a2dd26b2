package service

import (
	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/voucher/model"
)

// MinFinalPrice: giá cuối của đơn có voucher không thấp hơn 10.000đ
var MinFinalPrice = decimal.NewFromInt(10000)

// Breakdown là kết quả tính giá của một đơn hàng
type Breakdown struct {
	Total       decimal.Decimal `json:"total"`
	RawDiscount decimal.Decimal `json:"raw_discount"` // trước khi clamp
	Discount    decimal.Decimal `json:"discount"`
	Final       decimal.Decimal `json:"final"`
	CapReason   string          `json:"cap_reason,omitempty"`
}

// Applicable false khi đơn có voucher mà total < MinFinalPrice
func Applicable(total decimal.Decimal, v *model.Voucher) bool {
	return v == nil || !total.LessThan(MinFinalPrice)
}

// Calculate tính discount và giá cuối. Hàm thuần, không kiểm tra minOrderPrice
// (caller gọi Voucher.MeetsMinOrderPrice trước).
//
// Thứ tự clamp cố định:
//  1. Percent: total × value / 100, Money: value
//  2. min(discount, maxDiscount)
//  3. min(discount, total - 10000)
//
// VD: total 10.000, Percent 80, max 2.000 → raw 8.000 → 2.000 → 0
//
// total < 10.000 thì bước 3 cho discount âm; caller phải chặn bằng Applicable.
func Calculate(total decimal.Decimal, v *model.Voucher) Breakdown {
	b := Breakdown{Total: total, RawDiscount: decimal.Zero, Discount: decimal.Zero, Final: total}
	if v == nil {
		return b
	}

	switch v.Unit {
	case model.VoucherUnitPercent:
		b.RawDiscount = total.Mul(v.Value).Div(decimal.NewFromInt(100)).Round(0)
	case model.VoucherUnitMoney:
		b.RawDiscount = v.Value
	}
	discount := b.RawDiscount

	if v.MaxDiscount != nil && discount.GreaterThan(*v.MaxDiscount) {
		discount = *v.MaxDiscount
		b.CapReason = "max_discount"
	}

	floor := total.Sub(MinFinalPrice)
	if discount.GreaterThan(floor) {
		discount = floor
		b.CapReason = "min_final_price"
	}

	b.Discount = discount
	b.Final = total.Sub(discount)
	return b
}
