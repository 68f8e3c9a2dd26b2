package job

import (
	"context"

	"github.com/hibiken/asynq"

	"shop-backend/internal/domains/product/service"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/pkg/logger"
)

// ImportProductsHandler xử lý task product:import (queue low)
type ImportProductsHandler struct {
	importService service.ImportService
}

func NewImportProductsHandler(importService service.ImportService) *ImportProductsHandler {
	return &ImportProductsHandler{importService: importService}
}

func (h *ImportProductsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ImportProductsPayload
	if err := queue.DecodePayload(t, &payload); err != nil {
		return err
	}

	logger.Info("Start import products via excel form", map[string]interface{}{
		"import_id":  payload.ImportID,
		"object_key": payload.ObjectKey,
	})

	if err := h.importService.Process(ctx, payload); err != nil {
		logger.ErrorWithFields("Import products failed", err, map[string]interface{}{"import_id": payload.ImportID})
		return err
	}
	return nil
}
