package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// doanh thu tính theo ngày giờ Việt Nam
const ReportTimezone = "Asia/Ho_Chi_Minh"

type DailyRevenue struct {
	Date     string          `json:"date"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	Discount decimal.Decimal `json:"discount"`
}

type RevenueReport struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Days          []*DailyRevenue `json:"days"`
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}

// NewRevenueReport cộng dồn tổng từ các ngày
func NewRevenueReport(from, to string, days []*DailyRevenue) *RevenueReport {
	r := &RevenueReport{From: from, To: to, Days: days, TotalRevenue: decimal.Zero, TotalDiscount: decimal.Zero}
	for _, d := range days {
		r.TotalOrders += d.Orders
		r.TotalRevenue = r.TotalRevenue.Add(d.Revenue)
		r.TotalDiscount = r.TotalDiscount.Add(d.Discount)
	}
	return r
}

type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ReportRequest: from/to dạng YYYY-MM-DD, to tính cả ngày
type ReportRequest struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit"`
}

func (r ReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.From, validation.Date(DateLayout)),
		validation.Field(&r.To, validation.Date(DateLayout)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(100)),
	)
}

// Range trả về [from, to+1 ngày) theo loc. Mặc định 30 ngày gần nhất
func (r ReportRequest) Range(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	today := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)

	to := today
	if r.To != "" {
		t, err := time.ParseInLocation(DateLayout, r.To, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}

	from := to.AddDate(0, 0, -29)
	if r.From != "" {
		f, err := time.ParseInLocation(DateLayout, r.From, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = f
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return from, to.AddDate(0, 0, 1), nil
}

func (r ReportRequest) TopLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}
