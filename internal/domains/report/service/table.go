package service

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"shop-backend/internal/domains/report/model"
)

// WriteRevenueTable in báo cáo doanh thu dạng bảng (cmd/report)
func WriteRevenueTable(w io.Writer, r *model.RevenueReport) error {
	table := tablewriter.NewWriter(w)
	table.Header("Date", "Orders", "Revenue", "Discount")
	for _, d := range r.Days {
		if err := table.Append(d.Date, strconv.Itoa(d.Orders), d.Revenue.StringFixed(0), d.Discount.StringFixed(0)); err != nil {
			return err
		}
	}
	table.Footer("Total", strconv.Itoa(r.TotalOrders), r.TotalRevenue.StringFixed(0), r.TotalDiscount.StringFixed(0))
	return table.Render()
}

func WriteTopProductsTable(w io.Writer, products []*model.TopProduct) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Code", "Name", "Sold", "Revenue")
	for i, p := range products {
		if err := table.Append(strconv.Itoa(i+1), p.Code, p.Name, strconv.Itoa(p.Quantity), p.Revenue.StringFixed(0)); err != nil {
			return err
		}
	}
	return table.Render()
}
