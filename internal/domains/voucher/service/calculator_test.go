package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"shop-backend/internal/domains/voucher/model"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		voucher      *model.Voucher
		wantDiscount int64
		wantFinal    int64
		wantCap      string
	}{
		{
			name:         "no voucher",
			total:        35000,
			wantDiscount: 0,
			wantFinal:    35000,
		},
		{
			name:         "money voucher under floor",
			total:        35000,
			voucher:      &model.Voucher{Unit: model.VoucherUnitMoney, Value: dec(3000), MinOrderPrice: decPtr(20000)},
			wantDiscount: 3000,
			wantFinal:    32000,
		},
		{
			name:         "percent clamped by max discount then floor",
			total:        10000,
			voucher:      &model.Voucher{Unit: model.VoucherUnitPercent, Value: dec(80), MaxDiscount: decPtr(2000)},
			wantDiscount: 0,
			wantFinal:    10000,
			wantCap:      "min_final_price",
		},
		{
			name:         "percent clamped by max discount",
			total:        100000,
			voucher:      &model.Voucher{Unit: model.VoucherUnitPercent, Value: dec(50), MaxDiscount: decPtr(20000)},
			wantDiscount: 20000,
			wantFinal:    80000,
			wantCap:      "max_discount",
		},
		{
			name:         "money clamped by floor",
			total:        15000,
			voucher:      &model.Voucher{Unit: model.VoucherUnitMoney, Value: dec(9000)},
			wantDiscount: 5000,
			wantFinal:    10000,
			wantCap:      "min_final_price",
		},
		{
			name:         "total below floor still ends at floor",
			total:        8000,
			voucher:      &model.Voucher{Unit: model.VoucherUnitMoney, Value: dec(1000)},
			wantDiscount: -2000,
			wantFinal:    10000,
			wantCap:      "min_final_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Calculate(dec(tt.total), tt.voucher)
			assert.True(t, dec(tt.wantDiscount).Equal(b.Discount), "discount = %s", b.Discount)
			assert.True(t, dec(tt.wantFinal).Equal(b.Final), "final = %s", b.Final)
			assert.Equal(t, tt.wantCap, b.CapReason)
		})
	}
}

func TestCalculate_DiscountNeverBreaksFloor(t *testing.T) {
	v := &model.Voucher{Unit: model.VoucherUnitPercent, Value: dec(100)}
	for total := int64(10000); total <= 200000; total += 7300 {
		b := Calculate(dec(total), v)
		assert.True(t, b.Final.GreaterThanOrEqual(MinFinalPrice), "total %d final %s", total, b.Final)
		assert.True(t, b.Discount.LessThanOrEqual(dec(total).Sub(MinFinalPrice)))
	}
}

func TestVoucher_MinOrderPrice(t *testing.T) {
	v := &model.Voucher{Unit: model.VoucherUnitMoney, Value: dec(3000), MinOrderPrice: decPtr(40000)}
	assert.False(t, v.MeetsMinOrderPrice(dec(35000)))
	assert.True(t, v.MeetsMinOrderPrice(dec(40000)))
	assert.True(t, (&model.Voucher{}).MeetsMinOrderPrice(dec(1)))
}

func TestApplicable(t *testing.T) {
	v := &model.Voucher{Unit: model.VoucherUnitMoney, Value: dec(1000)}

	assert.False(t, Applicable(dec(8000), v))
	assert.False(t, Applicable(dec(9999), v))
	assert.True(t, Applicable(dec(10000), v))
	assert.True(t, Applicable(dec(8000), nil))

	b := Calculate(dec(8000), v)
	assert.True(t, b.Discount.LessThanOrEqual(dec(8000).Sub(MinFinalPrice)))
	assert.True(t, b.Final.GreaterThanOrEqual(MinFinalPrice))
}
