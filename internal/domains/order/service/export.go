package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"shop-backend/internal/domains/order/model"
)

const exportSheet = "Orders"

var exportHeaders = []string{
	"Code",
	"Created At",
	"Status",
	"Receiver",
	"Phone",
	"Address",
	"Payment Method",
	"Payment Status",
	"Voucher",
	"Total",
	"Discount",
	"Final",
	"Products",
}

// ExportOrders xuất đơn trong [from, to + 1 ngày) ra file xlsx
func (s *orderService) ExportOrders(ctx context.Context, req model.ExportOrdersRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidInput, err.Error(), nil)
	}
	if req.Status != "" && !req.Status.IsValid() {
		return nil, model.NewOrderError(model.ErrCodeInvalidInput, "status: must be a valid value.", nil)
	}

	orders, err := s.orderRepo.ListForExport(ctx, req.From, req.To.AddDate(0, 0, 1), req.Status)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to list orders", err)
	}

	f, err := buildOrdersExcelFile(orders)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to build excel file", err)
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to write excel file", err)
	}
	return buf.Bytes(), nil
}

func buildOrdersExcelFile(orders []*model.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, o := range orders {
		values := []interface{}{
			o.Code,
			o.CreatedAt.Format("2006-01-02 15:04:05"),
			string(o.Status),
			o.ReceiverName,
			o.OrderPhone,
			o.OrderAddress,
			"",
			"",
			"",
			o.OrderTotalPrice.InexactFloat64(),
			o.OrderDiscount.InexactFloat64(),
			o.OrderFinalPrice.InexactFloat64(),
			describeDetails(o.Details),
		}
		if o.Payment != nil {
			values[6] = string(o.Payment.PaymentMethod)
			values[7] = string(o.Payment.Status)
		}
		if o.VoucherCode != nil {
			values[8] = *o.VoucherCode
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// describeDetails: "PD... x2; PD... x1"
func describeDetails(details []model.OrderDetail) string {
	var b bytes.Buffer
	for i, d := range details {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s x%d", d.ProductCode, d.Quantity)
	}
	return b.String()
}
