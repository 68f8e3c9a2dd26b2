package service

import (
	"context"
	"time"

	"shop-backend/internal/domains/report/model"
	"shop-backend/internal/domains/report/repository"
	"shop-backend/internal/shared/apperr"
)

type ReportService interface {
	Revenue(ctx context.Context, req model.ReportRequest) (*model.RevenueReport, error)
	TopProducts(ctx context.Context, req model.ReportRequest) ([]*model.TopProduct, error)
}

type reportService struct {
	repo repository.ReportRepository
	loc  *time.Location
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository) ReportService {
	loc, err := time.LoadLocation(model.ReportTimezone)
	if err != nil {
		// thiếu tzdata, dùng UTC+7 cố định
		loc = time.FixedZone("ICT", 7*3600)
	}
	return &reportService{repo: repo, loc: loc, now: time.Now}
}

func (s *reportService) dateRange(req model.ReportRequest) (time.Time, time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, time.Time{}, model.NewReportError(model.ErrCodeInvalidInput, err.Error(), nil)
	}
	from, to, err := req.Range(s.now(), s.loc)
	if err != nil {
		if apperr.As(err) != nil {
			return time.Time{}, time.Time{}, err
		}
		return time.Time{}, time.Time{}, model.NewReportError(model.ErrCodeInvalidInput, "Date is not valid", err)
	}
	return from, to, nil
}

func (s *reportService) Revenue(ctx context.Context, req model.ReportRequest) (*model.RevenueReport, error) {
	from, to, err := s.dateRange(req)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.RevenueByDay(ctx, from, to)
	if err != nil {
		return nil, model.NewReportError(model.ErrCodeInternal, "Failed to build revenue report", err)
	}
	return model.NewRevenueReport(from.Format(model.DateLayout), to.AddDate(0, 0, -1).Format(model.DateLayout), days), nil
}

func (s *reportService) TopProducts(ctx context.Context, req model.ReportRequest) ([]*model.TopProduct, error) {
	from, to, err := s.dateRange(req)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.TopProducts(ctx, from, to, req.TopLimit())
	if err != nil {
		return nil, model.NewReportError(model.ErrCodeInternal, "Failed to build top products report", err)
	}
	return products, nil
}
