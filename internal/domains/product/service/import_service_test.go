package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/domains/product/model"
	"shop-backend/internal/shared"
)

func headerRows() [][]string {
	return [][]string{
		{"PHIẾU NHẬP SẢN PHẨM"},
		{},
		{},
		{},
		append([]string{}, importHeaders...),
	}
}

func TestParseImportRows(t *testing.T) {
	rows := append(headerRows(),
		[]string{"1", "P1", "Áo", "", "5", "10000"},
		[]string{},
		[]string{"2", "", "", "", "3", "100"},
		[]string{"3", "P2", "", "", "abc", "100"},
		[]string{"4", "P3", "", "", "2", "-1"},
	)

	parsed, rowErrors, err := ParseImportRows(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "P1", parsed[0].Code)
	assert.Equal(t, 5, parsed[0].Quantity)
	assert.Equal(t, 6, parsed[0].Row)

	require.Len(t, rowErrors, 3)
	assert.Equal(t, msgImportMissingFields, rowErrors[0].Message)
	assert.Equal(t, 8, rowErrors[0].Row)
}

func TestParseImportRows_BadHeader(t *testing.T) {
	_, _, err := ParseImportRows([][]string{{"#", "code"}})
	assert.EqualError(t, err, msgImportBadFormat)

	rows := headerRows()
	rows[4][1] = "Mã"
	_, _, err = ParseImportRows(rows)
	assert.EqualError(t, err, msgImportBadFormat)
}

func TestImportService_UploadAndProcess(t *testing.T) {
	p1 := &model.Product{ID: uuid.New(), Code: "P1", Name: "Áo", Slug: "ao-p1", QuantityInStock: 2}
	p2 := &model.Product{ID: uuid.New(), Code: "P2", Name: "Quần", Slug: "quan-p2", QuantityInStock: 0}
	productRepo := newMemProductRepo(p1, p2)
	importRepo := newMemImportRepo()
	store := newMemStorage()
	enq := &recordingEnqueuer{}
	svc := NewImportService(productRepo, importRepo, store, enq, shared.QueueLow)
	ctx := context.Background()

	f, err := svc.Template(ctx, []uuid.UUID{p1.ID})
	require.NoError(t, err)
	f.SetCellValue(importSheetName, fmt.Sprintf("E%d", importHeaderRow+1), 5)
	f.SetCellValue(importSheetName, fmt.Sprintf("F%d", importHeaderRow+1), 10000)
	f.SetCellValue(importSheetName, fmt.Sprintf("A%d", importHeaderRow+2), 2)
	f.SetCellValue(importSheetName, fmt.Sprintf("B%d", importHeaderRow+2), "NOPE")
	f.SetCellValue(importSheetName, fmt.Sprintf("E%d", importHeaderRow+2), 1)
	f.SetCellValue(importSheetName, fmt.Sprintf("F%d", importHeaderRow+2), 500)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	imp, err := svc.Upload(ctx, "form.xlsx", buf.Bytes(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusPending, imp.Status)
	assert.Equal(t, importSheetName, imp.Sheet)
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, shared.TypeImportProducts, enq.tasks[0].Type())

	err = svc.Process(ctx, shared.ImportProductsPayload{ImportID: imp.ID, ObjectKey: imp.ObjectKey, Sheet: imp.Sheet})
	require.NoError(t, err)

	done, err := svc.GetImport(ctx, imp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusCompleted, done.Status)
	assert.Equal(t, 2, done.TotalRows)
	assert.Equal(t, 1, done.SuccessRows)
	assert.Equal(t, 1, done.FailedRows)
	require.NotNil(t, done.ResultKey)
	assert.Contains(t, store.objects, *done.ResultKey)

	updated, err := productRepo.FindByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.QuantityInStock)

	// chạy lại task đã completed là no-op
	require.NoError(t, svc.Process(ctx, shared.ImportProductsPayload{ImportID: imp.ID, ObjectKey: imp.ObjectKey, Sheet: imp.Sheet}))
	updated, _ = productRepo.FindByID(ctx, p1.ID)
	assert.Equal(t, 7, updated.QuantityInStock)
}

func TestImportService_UploadRejectsNonWorkbook(t *testing.T) {
	svc := NewImportService(newMemProductRepo(), newMemImportRepo(), newMemStorage(), &recordingEnqueuer{}, shared.QueueLow)
	_, err := svc.Upload(context.Background(), "x.xlsx", []byte("hello"), uuid.New())
	require.Error(t, err)
}
