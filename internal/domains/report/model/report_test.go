package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRange(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	// 2026-05-10 20:00 UTC = 2026-05-11 03:00 ICT
	now := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)

	from, to, err := ReportRequest{}.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 12, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 5, 12, 0, 0, 0, 0, loc), to)

	from, to, err = ReportRequest{From: "2026-05-01", To: "2026-05-03"}.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, loc), to)

	_, _, err = ReportRequest{From: "2026-05-05", To: "2026-05-03"}.Range(now, loc)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestReportRequestValidate(t *testing.T) {
	assert.NoError(t, ReportRequest{From: "2026-05-01"}.Validate())
	assert.Error(t, ReportRequest{From: "01/05/2026"}.Validate())
	assert.Error(t, ReportRequest{Limit: 101}.Validate())
	assert.Equal(t, 10, ReportRequest{}.TopLimit())
}

func TestNewRevenueReportTotals(t *testing.T) {
	r := NewRevenueReport("2026-05-01", "2026-05-02", []*DailyRevenue{
		{Date: "2026-05-01", Orders: 2, Revenue: decimal.NewFromInt(300000), Discount: decimal.NewFromInt(15000)},
		{Date: "2026-05-02", Orders: 1, Revenue: decimal.NewFromInt(120000), Discount: decimal.Zero},
	})
	assert.Equal(t, 3, r.TotalOrders)
	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(420000)))
	assert.True(t, r.TotalDiscount.Equal(decimal.NewFromInt(15000)))
}
