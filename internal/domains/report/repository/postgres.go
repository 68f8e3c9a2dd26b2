package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-backend/internal/domains/report/model"
)

type ReportRepository interface {
	// chỉ tính đơn Completed, nhóm theo ngày ở ReportTimezone
	RevenueByDay(ctx context.Context, from, to time.Time) ([]*model.DailyRevenue, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*model.TopProduct, error)
}

type postgresReportRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &postgresReportRepository{pool: pool}
}

func (r *postgresReportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]*model.DailyRevenue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(o.created_at AT TIME ZONE $3, 'YYYY-MM-DD') AS day,
		       COUNT(*)::int,
		       COALESCE(SUM(o.order_final_price), 0),
		       COALESCE(SUM(o.order_discount), 0)
		FROM orders o
		WHERE o.status = 'Completed'
		  AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY day
		ORDER BY day`,
		from, to, model.ReportTimezone,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}

	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.DailyRevenue, error) {
		var d model.DailyRevenue
		err := row.Scan(&d.Date, &d.Orders, &d.Revenue, &d.Discount)
		return &d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan revenue: %w", err)
	}
	return days, nil
}

func (r *postgresReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*model.TopProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.product_id,
		       MAX(d.product_code),
		       MAX(d.product_name),
		       SUM(d.quantity)::int AS quantity,
		       SUM(d.current_sale_price * d.quantity)
		FROM order_details d
		JOIN orders o ON o.id = d.order_id
		WHERE o.status = 'Completed'
		  AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY d.product_id
		ORDER BY quantity DESC, d.product_id
		LIMIT $3`,
		from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.TopProduct, error) {
		var p model.TopProduct
		err := row.Scan(&p.ProductID, &p.Code, &p.Name, &p.Quantity, &p.Revenue)
		return &p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan top products: %w", err)
	}
	return products, nil
}
