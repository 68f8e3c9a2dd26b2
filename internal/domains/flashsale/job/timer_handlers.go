package job

import (
	"context"

	"github.com/hibiken/asynq"

	"shop-backend/internal/domains/flashsale/service"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/pkg/logger"
)

// TimerHandler xử lý flashsale:notify, flashsale:activate, flashsale:deactivate.
// Cả ba đều idempotent nên asynq retry an toàn
type TimerHandler struct {
	flashSaleService service.FlashSaleService
}

func NewTimerHandler(flashSaleService service.FlashSaleService) *TimerHandler {
	return &TimerHandler{flashSaleService: flashSaleService}
}

func (h *TimerHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.FlashSaleTimerPayload
	if err := queue.DecodePayload(t, &payload); err != nil {
		return err
	}

	var err error
	switch t.Type() {
	case shared.TypeFlashSaleNotify:
		err = h.flashSaleService.Notify(ctx, payload.FlashSaleID)
	case shared.TypeFlashSaleActivate:
		err = h.flashSaleService.Activate(ctx, payload.FlashSaleID)
	case shared.TypeFlashSaleDeactivate:
		err = h.flashSaleService.Deactivate(ctx, payload.FlashSaleID)
	default:
		return asynq.SkipRetry
	}

	if err != nil {
		logger.ErrorWithFields("Flash sale timer failed", err, map[string]interface{}{
			"task_type":     t.Type(),
			"flash_sale_id": payload.FlashSaleID,
		})
		return err
	}
	return nil
}

// RecoverHandler chạy định kỳ (scheduler), enqueue lại các timer bị lỡ
type RecoverHandler struct {
	flashSaleService service.FlashSaleService
}

func NewRecoverHandler(flashSaleService service.FlashSaleService) *RecoverHandler {
	return &RecoverHandler{flashSaleService: flashSaleService}
}

func (h *RecoverHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	n, err := h.flashSaleService.Recover(ctx)
	if err != nil {
		logger.ErrorWithFields("Flash sale recovery sweep failed", err, map[string]interface{}{"enqueued": n})
		return err
	}
	return nil
}
