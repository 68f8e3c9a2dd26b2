package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/domains/report/model"
)

type countingReportService struct {
	revenueCalls int
	topCalls     int
}

func (s *countingReportService) Revenue(_ context.Context, req model.ReportRequest) (*model.RevenueReport, error) {
	s.revenueCalls++
	return model.NewRevenueReport("2026-01-01", "2026-01-31", nil), nil
}

func (s *countingReportService) TopProducts(_ context.Context, req model.ReportRequest) ([]*model.TopProduct, error) {
	s.topCalls++
	return nil, nil
}

func TestRun_SelectsSections(t *testing.T) {
	tests := []struct {
		only        string
		wantRevenue int
		wantTop     int
	}{
		{"all", 1, 1},
		{"revenue", 1, 0},
		{"top", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.only, func(t *testing.T) {
			svc := &countingReportService{}
			require.NoError(t, run(context.Background(), svc, model.ReportRequest{}, tt.only))
			assert.Equal(t, tt.wantRevenue, svc.revenueCalls)
			assert.Equal(t, tt.wantTop, svc.topCalls)
		})
	}
}

func TestRun_UnknownSection(t *testing.T) {
	svc := &countingReportService{}
	err := run(context.Background(), svc, model.ReportRequest{}, "weekly")
	require.Error(t, err)
	assert.Zero(t, svc.revenueCalls+svc.topCalls)
}
