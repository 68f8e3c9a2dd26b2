package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"shop-backend/internal/domains/product/model"
	"shop-backend/internal/domains/product/repository"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/infrastructure/storage"
	"shop-backend/internal/shared"
)

const (
	importSheetName = "Phiếu nhập"
	importHeaderRow = 5 // 4 dòng đầu là tiêu đề form
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportRows   = 1000
)

var importHeaders = []string{
	"#",
	"Mã sản phẩm (cần chính xác)",
	"Tên sản phẩm (tùy chọn)",
	"Trạng thái (tùy chọn)",
	"Số lượng nhập",
	"Giá nhập (vnđ)",
}

const (
	msgImportMissingFields = "Mã sản phẩm, số lượng nhập, giá nhập không được để trống"
	msgImportNotFound      = "Không tìm thấy sản phẩm tương ứng với mã sản phẩm"
	msgImportBadFormat     = "Incorrect import form format"
)

type ImportService interface {
	Template(ctx context.Context, productIDs []uuid.UUID) (*excelize.File, error)
	Upload(ctx context.Context, fileName string, data []byte, createdBy uuid.UUID) (*model.ProductImport, error)
	GetImport(ctx context.Context, id uuid.UUID) (*model.ProductImport, error)
	ListImports(ctx context.Context, page, limit int) ([]*model.ProductImport, int64, error)
	Process(ctx context.Context, payload shared.ImportProductsPayload) error
}

type importService struct {
	productRepo repository.ProductRepository
	importRepo  repository.ImportRepository
	storage     storage.FileStorage
	enqueuer    queue.Enqueuer
	queueName   string
}

func NewImportService(
	productRepo repository.ProductRepository,
	importRepo repository.ImportRepository,
	fileStorage storage.FileStorage,
	enqueuer queue.Enqueuer,
	queueName string,
) ImportService {
	return &importService{
		productRepo: productRepo,
		importRepo:  importRepo,
		storage:     fileStorage,
		enqueuer:    enqueuer,
		queueName:   queueName,
	}
}

// ========================================
// TEMPLATE
// ========================================

// Template sinh form nhập hàng, điền sẵn mã/tên các sản phẩm được chọn
func (s *importService) Template(ctx context.Context, productIDs []uuid.UUID) (*excelize.File, error) {
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to load products", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", importSheetName); err != nil {
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to build template", err)
	}

	f.SetCellValue(importSheetName, "A1", "PHIẾU NHẬP SẢN PHẨM")
	f.SetCellValue(importSheetName, "A2", "Ngày tạo: "+time.Now().Format("02/01/2006"))
	f.SetCellValue(importSheetName, "A3", "Điền số lượng và giá nhập, giữ nguyên dòng tiêu đề")

	for col, header := range importHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, importHeaderRow)
		f.SetCellValue(importSheetName, cell, header)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(importHeaders), importHeaderRow)
		f.SetCellStyle(importSheetName, "A1", "A1", style)
		f.SetCellStyle(importSheetName, fmt.Sprintf("A%d", importHeaderRow), last, style)
	}

	for i, p := range products {
		row := importHeaderRow + 1 + i
		f.SetCellValue(importSheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(importSheetName, fmt.Sprintf("B%d", row), p.Code)
		f.SetCellValue(importSheetName, fmt.Sprintf("C%d", row), p.Name)
	}
	return f, nil
}

// ========================================
// UPLOAD + ENQUEUE
// ========================================

func (s *importService) Upload(ctx context.Context, fileName string, data []byte, createdBy uuid.UUID) (*model.ProductImport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidImport, "File is not a valid xlsx workbook", err)
	}
	sheet := f.GetSheetName(0)
	_ = f.Close()
	if sheet == "" {
		return nil, model.NewProductError(model.ErrCodeInvalidImport, "Workbook has no sheet", nil)
	}

	id := uuid.New()
	objectKey := fmt.Sprintf("imports/%s.xlsx", id)
	if _, err := s.storage.Upload(ctx, objectKey, data, xlsxContentType); err != nil {
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to store import file", err)
	}

	imp := &model.ProductImport{
		FileName:  fileName,
		ObjectKey: objectKey,
		Sheet:     sheet,
		Status:    model.ImportStatusPending,
		Errors:    []model.ImportRowError{},
		CreatedBy: &createdBy,
	}
	if err := s.importRepo.Create(ctx, imp); err != nil {
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to create import", err)
	}

	payload := shared.ImportProductsPayload{ImportID: imp.ID, ObjectKey: objectKey, Sheet: sheet}
	if _, err := queue.EnqueueJSON(ctx, s.enqueuer, shared.TypeImportProducts, payload,
		asynq.Queue(s.queueName),
		asynq.TaskID("import:"+imp.ID.String()),
		asynq.MaxRetry(3),
	); err != nil {
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to enqueue import", err)
	}

	log.Info().Str("import_id", imp.ID.String()).Str("file", fileName).Msg("Product import queued")
	return imp, nil
}

func (s *importService) GetImport(ctx context.Context, id uuid.UUID) (*model.ProductImport, error) {
	imp, err := s.importRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrImportNotFound) {
			return nil, model.NewProductError(model.ErrCodeImportNotFound, "No import found", err)
		}
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to get import", err)
	}
	return imp, nil
}

func (s *importService) ListImports(ctx context.Context, page, limit int) ([]*model.ProductImport, int64, error) {
	imports, total, err := s.importRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, model.NewProductError(model.ErrCodeInternal, "Failed to list imports", err)
	}
	return imports, total, nil
}

// ========================================
// PROCESS (worker)
// ========================================

// Process chạy trong worker: đọc file, cộng tồn kho từng dòng, lưu file kết quả.
// Lỗi từng dòng không làm fail cả job
func (s *importService) Process(ctx context.Context, payload shared.ImportProductsPayload) error {
	imp, err := s.importRepo.FindByID(ctx, payload.ImportID)
	if err != nil {
		if errors.Is(err, model.ErrImportNotFound) {
			return fmt.Errorf("import %s: %v: %w", payload.ImportID, err, asynq.SkipRetry)
		}
		return err
	}
	if imp.Status == model.ImportStatusCompleted || imp.Status == model.ImportStatusFailed {
		return nil
	}

	if err := s.importRepo.MarkProcessing(ctx, imp.ID); err != nil {
		return err
	}

	data, err := s.storage.Download(ctx, payload.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to download import file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return s.fail(ctx, imp, err.Error())
	}
	defer f.Close()

	sheetRows, err := f.GetRows(payload.Sheet)
	if err != nil {
		return s.fail(ctx, imp, err.Error())
	}

	rows, rowErrors, err := ParseImportRows(sheetRows)
	if err != nil {
		return s.fail(ctx, imp, err.Error())
	}

	results := make([]model.ImportRowResult, 0, len(rows)+len(rowErrors))
	for _, re := range rowErrors {
		results = append(results, model.ImportRowResult{ImportRow: model.ImportRow{Row: re.Row, Code: re.Code}, Message: re.Message})
	}

	for _, row := range rows {
		result := model.ImportRowResult{ImportRow: row, Success: true}
		if _, err := s.productRepo.IncrementStockByCode(ctx, row.Code, row.Quantity); err != nil {
			result.Success = false
			if errors.Is(err, model.ErrProductNotFound) {
				result.Message = msgImportNotFound
			} else {
				result.Message = err.Error()
			}
			rowErrors = append(rowErrors, model.ImportRowError{Row: row.Row, Code: row.Code, Message: result.Message})
		}
		results = append(results, result)
	}

	imp.Status = model.ImportStatusCompleted
	imp.TotalRows = len(results)
	imp.FailedRows = len(rowErrors)
	imp.SuccessRows = imp.TotalRows - imp.FailedRows
	imp.Errors = rowErrors

	if resultKey, err := s.storeResult(ctx, imp, results); err != nil {
		log.Error().Err(err).Str("import_id", imp.ID.String()).Msg("Failed to store import result file")
	} else {
		imp.ResultKey = &resultKey
	}

	if err := s.importRepo.Complete(ctx, imp); err != nil {
		return fmt.Errorf("failed to complete import: %w", err)
	}

	log.Info().
		Str("import_id", imp.ID.String()).
		Int("total", imp.TotalRows).
		Int("success", imp.SuccessRows).
		Int("failed", imp.FailedRows).
		Msg("Product import completed")
	return nil
}

func (s *importService) fail(ctx context.Context, imp *model.ProductImport, message string) error {
	imp.Status = model.ImportStatusFailed
	imp.Errors = []model.ImportRowError{{Row: 0, Message: message}}
	if err := s.importRepo.Complete(ctx, imp); err != nil {
		return fmt.Errorf("failed to mark import failed: %w", err)
	}
	log.Warn().Str("import_id", imp.ID.String()).Str("reason", message).Msg("Product import failed")
	return nil
}

// ParseImportRows kiểm tra header ở dòng importHeaderRow rồi đọc các dòng dữ liệu.
// Dòng thiếu mã/số lượng/giá nhập trả về ở rowErrors, không dừng cả file
func ParseImportRows(sheetRows [][]string) ([]model.ImportRow, []model.ImportRowError, error) {
	if len(sheetRows) < importHeaderRow || !headersMatch(sheetRows[importHeaderRow-1]) {
		return nil, nil, errors.New(msgImportBadFormat)
	}

	dataRows := sheetRows[importHeaderRow:]
	if len(dataRows) > maxImportRows {
		return nil, nil, fmt.Errorf("file exceeds %d rows limit", maxImportRows)
	}

	rows := []model.ImportRow{}
	rowErrors := []model.ImportRowError{}
	for i, record := range dataRows {
		rowNum := importHeaderRow + 1 + i
		col := func(idx int) string {
			if idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		if strings.Join(record, "") == "" {
			continue
		}

		row := model.ImportRow{Row: rowNum, Order: col(0), Code: col(1), Name: col(2)}
		qtyStr, priceStr := col(4), col(5)
		if row.Code == "" || qtyStr == "" || priceStr == "" {
			rowErrors = append(rowErrors, model.ImportRowError{Row: rowNum, Code: row.Code, Message: msgImportMissingFields})
			continue
		}

		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			rowErrors = append(rowErrors, model.ImportRowError{Row: rowNum, Code: row.Code, Message: "Số lượng nhập không hợp lệ"})
			continue
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			rowErrors = append(rowErrors, model.ImportRowError{Row: rowNum, Code: row.Code, Message: "Giá nhập không hợp lệ"})
			continue
		}

		row.Quantity = qty
		row.ImportPrice = price
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func headersMatch(header []string) bool {
	if len(header) < len(importHeaders) {
		return false
	}
	for i, h := range importHeaders {
		if strings.TrimSpace(header[i]) != h {
			return false
		}
	}
	return true
}

// storeResult ghi file kết quả (mỗi dòng + trạng thái) lên object storage
func (s *importService) storeResult(ctx context.Context, imp *model.ProductImport, results []model.ImportRowResult) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Kết quả"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", err
	}

	headers := []string{"Dòng", "#", "Mã sản phẩm", "Tên sản phẩm", "Số lượng nhập", "Giá nhập (vnđ)", "Kết quả", "Lỗi"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range results {
		row := i + 2
		status := "Thành công"
		if !r.Success {
			status = "Thất bại"
		}
		values := []interface{}{r.Row, r.Order, r.Code, r.Name, r.Quantity, r.ImportPrice.String(), status, r.Message}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("imports/results/%s.xlsx", imp.ID)
	if _, err := s.storage.Upload(ctx, key, buf.Bytes(), xlsxContentType); err != nil {
		return "", err
	}
	return key, nil
}
