package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/domains/report/model"
	"shop-backend/internal/shared/apperr"
)

type stubReportRepo struct {
	days     []*model.DailyRevenue
	products []*model.TopProduct

	from, to time.Time
	limit    int
}

func (r *stubReportRepo) RevenueByDay(ctx context.Context, from, to time.Time) ([]*model.DailyRevenue, error) {
	r.from, r.to = from, to
	return r.days, nil
}

func (r *stubReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*model.TopProduct, error) {
	r.from, r.to, r.limit = from, to, limit
	return r.products, nil
}

func newTestReportService(repo *stubReportRepo) *reportService {
	svc := NewReportService(repo).(*reportService)
	svc.loc = time.FixedZone("ICT", 7*3600)
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRevenueReport(t *testing.T) {
	repo := &stubReportRepo{days: []*model.DailyRevenue{
		{Date: "2026-05-01", Orders: 2, Revenue: decimal.NewFromInt(300000), Discount: decimal.NewFromInt(15000)},
	}}
	svc := newTestReportService(repo)

	report, err := svc.Revenue(context.Background(), model.ReportRequest{From: "2026-05-01", To: "2026-05-07"})
	require.NoError(t, err)

	assert.Equal(t, "2026-05-01", report.From)
	assert.Equal(t, "2026-05-07", report.To)
	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, time.Date(2026, 5, 8, 0, 0, 0, 0, svc.loc), repo.to)
}

func TestRevenueReportInvalidInput(t *testing.T) {
	svc := newTestReportService(&stubReportRepo{})

	for _, req := range []model.ReportRequest{
		{From: "2026/05/01"},
		{From: "2026-05-09", To: "2026-05-01"},
	} {
		_, err := svc.Revenue(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	}
}

func TestTopProductsDefaultLimit(t *testing.T) {
	repo := &stubReportRepo{}
	svc := newTestReportService(repo)

	_, err := svc.TopProducts(context.Background(), model.ReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.limit)
}

func TestWriteTables(t *testing.T) {
	var buf bytes.Buffer
	report := model.NewRevenueReport("2026-05-01", "2026-05-01", []*model.DailyRevenue{
		{Date: "2026-05-01", Orders: 3, Revenue: decimal.NewFromInt(450000), Discount: decimal.NewFromInt(5000)},
	})
	require.NoError(t, WriteRevenueTable(&buf, report))
	assert.Contains(t, buf.String(), "2026-05-01")
	assert.Contains(t, buf.String(), "450000")

	buf.Reset()
	require.NoError(t, WriteTopProductsTable(&buf, []*model.TopProduct{
		{ProductID: uuid.New(), Code: "PDSHIRT", Name: "Shirt", Quantity: 12, Revenue: decimal.NewFromInt(1200000)},
	}))
	assert.Contains(t, buf.String(), "PDSHIRT")
	assert.Contains(t, buf.String(), "1200000")
}
