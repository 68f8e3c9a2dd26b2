package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"shop-backend/internal/config"
	"shop-backend/internal/domains/flashsale/model"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/pkg/logger"
)

// Timers lên lịch notify/activate/deactivate cho flash sale bằng asynq ProcessAt.
// Task ID cố định theo flash sale nên enqueue lại không tạo task trùng
type Timers interface {
	Schedule(ctx context.Context, fs *model.FlashSale) error
	// EnqueueNow chạy ngay một timer (recovery sweep)
	EnqueueNow(ctx context.Context, taskType string, flashSaleID uuid.UUID) error
	Cancel(flashSaleID uuid.UUID)
}

type asynqTimers struct {
	client    queue.Enqueuer
	inspector queue.Inspector
	cfg       config.FlashSaleConfig
	now       func() time.Time
}

func NewTimers(client queue.Enqueuer, inspector queue.Inspector, cfg config.FlashSaleConfig) Timers {
	return &asynqTimers{client: client, inspector: inspector, cfg: cfg, now: time.Now}
}

// TimerTaskID: "<task type>:<flash sale id>"
func TimerTaskID(taskType string, flashSaleID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", taskType, flashSaleID)
}

func (t *asynqTimers) queueFor(taskType string) string {
	if taskType == shared.TypeFlashSaleNotify {
		return t.cfg.NotifyQueue
	}
	return t.cfg.TimerQueue
}

func (t *asynqTimers) Schedule(ctx context.Context, fs *model.FlashSale) error {
	now := t.now()
	timers := []struct {
		taskType string
		at       time.Time
	}{
		{shared.TypeFlashSaleNotify, fs.NotifyAt(t.cfg.NotifyLead, now)},
		{shared.TypeFlashSaleActivate, fs.StartAt},
		{shared.TypeFlashSaleDeactivate, fs.DueAt},
	}

	// mỗi timer độc lập, lỗi của một timer không chặn các timer còn lại
	var errs []error
	for _, timer := range timers {
		if err := t.enqueue(ctx, timer.taskType, fs.ID, asynq.ProcessAt(timer.at)); err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug(fmt.Sprintf("Scheduled %s for flash sale %s at %s", timer.taskType, fs.ID, timer.at.Format(time.RFC3339)))
	}
	return errors.Join(errs...)
}

func (t *asynqTimers) EnqueueNow(ctx context.Context, taskType string, flashSaleID uuid.UUID) error {
	return t.enqueue(ctx, taskType, flashSaleID)
}

func (t *asynqTimers) enqueue(ctx context.Context, taskType string, flashSaleID uuid.UUID, opts ...asynq.Option) error {
	opts = append(opts,
		asynq.TaskID(TimerTaskID(taskType, flashSaleID)),
		asynq.Queue(t.queueFor(taskType)),
		asynq.MaxRetry(t.cfg.TimerMaxRetry),
		asynq.Timeout(time.Minute),
	)

	_, err := queue.EnqueueJSON(ctx, t.client, taskType, shared.FlashSaleTimerPayload{FlashSaleID: flashSaleID}, opts...)
	if err != nil && errors.Is(err, asynq.ErrTaskIDConflict) {
		// task vẫn còn trong queue, sẽ được xử lý
		return nil
	}
	return err
}

func (t *asynqTimers) Cancel(flashSaleID uuid.UUID) {
	for _, taskType := range []string{shared.TypeFlashSaleNotify, shared.TypeFlashSaleActivate, shared.TypeFlashSaleDeactivate} {
		err := t.inspector.DeleteTask(t.queueFor(taskType), TimerTaskID(taskType, flashSaleID))
		if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			continue
		}
		// task đang chạy không xoá được, handler sẽ no-op vì flash sale đã bị xoá
		logger.Warn("Failed to cancel flash sale timer", map[string]interface{}{
			"flash_sale_id": flashSaleID,
			"task_type":     taskType,
			"error":         err.Error(),
		})
	}
}
