package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFlashSaleOverlaps(t *testing.T) {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	fs := &FlashSale{StartAt: base, DueAt: base.Add(2 * time.Hour)}

	tests := []struct {
		name  string
		start time.Time
		due   time.Time
		want  bool
	}{
		{"entirely before", base.Add(-3 * time.Hour), base.Add(-time.Hour), false},
		{"touches start", base.Add(-time.Hour), base, true},
		{"inside", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"covers", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"touches due", base.Add(2 * time.Hour), base.Add(3 * time.Hour), true},
		{"entirely after", base.Add(2*time.Hour + time.Second), base.Add(4 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fs.Overlaps(tt.start, tt.due))
		})
	}
}

func TestFlashSaleNotifyAt(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	fs := &FlashSale{StartAt: start}

	assert.Equal(t, start.Add(-15*time.Minute), fs.NotifyAt(15*time.Minute, start.Add(-time.Hour)))
	// đã qua mốc thông báo -> gửi ngay
	now := start.Add(-5 * time.Minute)
	assert.Equal(t, now, fs.NotifyAt(15*time.Minute, now))
}

func TestFlashSaleApplyActivation(t *testing.T) {
	tests := []struct {
		name      string
		price     int64
		quantity  int
		salePrice int64
		stock     int
		wantPrice int64
		wantQty   int
	}{
		{"within limits", 80000, 10, 100000, 50, 80000, 10},
		{"price raised above current sale price", 120000, 10, 100000, 50, 100000, 10},
		{"stock dropped below flash quantity", 80000, 30, 100000, 12, 80000, 12},
		{"no stock left", 80000, 30, 100000, 0, 80000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &FlashSale{FlashSalePrice: decimal.NewFromInt(tt.price), FlashSaleQuantity: tt.quantity}
			fs.ApplyActivation(decimal.NewFromInt(tt.salePrice), tt.stock)

			assert.True(t, fs.FlashSalePrice.Equal(decimal.NewFromInt(tt.wantPrice)), fs.FlashSalePrice.String())
			assert.Equal(t, tt.wantQty, fs.FlashSaleQuantity)
			assert.True(t, fs.PreviousPrice.Equal(decimal.NewFromInt(tt.salePrice)))
			assert.Equal(t, tt.stock, fs.PreviousQuantity)
		})
	}
}

func TestFlashSaleRestoreKeepsUnitsSold(t *testing.T) {
	fs := &FlashSale{FlashSalePrice: decimal.NewFromInt(50000), FlashSaleQuantity: 10}
	fs.ApplyActivation(decimal.NewFromInt(100000), 40)

	// trong flash sale tồn kho = 10, bán được 7
	stockAtDue := fs.FlashSaleQuantity - 7
	restored := stockAtDue + fs.RestoreDelta()

	assert.Equal(t, 33, restored)
}
