package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"shop-backend/internal/domains/order/model"
	"shop-backend/internal/domains/order/service"
	"shop-backend/internal/infrastructure/email"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
	"shop-backend/pkg/logger"
)

// StatusEmailHandler xử lý task order:status_email
type StatusEmailHandler struct {
	orderService service.OrderService
	users        shared.UserDirectory
	emailService email.EmailService
	frontendURL  string
}

func NewStatusEmailHandler(
	orderService service.OrderService,
	users shared.UserDirectory,
	emailService email.EmailService,
	frontendURL string,
) *StatusEmailHandler {
	return &StatusEmailHandler{
		orderService: orderService,
		users:        users,
		emailService: emailService,
		frontendURL:  frontendURL,
	}
}

func (h *StatusEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.OrderStatusEmailPayload
	if err := queue.DecodePayload(t, &payload); err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(ctx, payload.OrderID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return fmt.Errorf("order %s: %v: %w", payload.OrderID, err, asynq.SkipRetry)
		}
		return err
	}

	user, err := h.users.GetBasicInfo(ctx, order.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return fmt.Errorf("user %s: %v: %w", order.UserID, err, asynq.SkipRetry)
		}
		return err
	}

	// status trong payload là trạng thái tại thời điểm enqueue, có thể đã cũ
	status := payload.Status
	if status == "" {
		status = string(order.Status)
	}

	if err := h.emailService.SendOrderStatusEmail(ctx, email.OrderStatusEmailData{
		Email:    user.Email,
		FullName: user.FullName,
		Code:     order.Code,
		Status:   statusLabel(model.OrderStatus(status)),
		OrderURL: fmt.Sprintf("%s/orders/%s", h.frontendURL, order.ID),
	}); err != nil {
		logger.ErrorWithFields("Failed to send order status email", err, map[string]interface{}{
			"order_code": order.Code,
			"email":      user.Email,
		})
		return err
	}

	logger.Info("Sent order status email", map[string]interface{}{
		"order_code": order.Code,
		"status":     status,
	})
	return nil
}

var statusLabels = map[model.OrderStatus]string{
	model.OrderStatusWaiting:   "Chờ xác nhận",
	model.OrderStatusConfirmed: "Đã xác nhận",
	model.OrderStatusShipping:  "Đang giao hàng",
	model.OrderStatusUnclaimed: "Không nhận hàng",
	model.OrderStatusCompleted: "Đã hoàn thành",
	model.OrderStatusCanceled:  "Đã huỷ",
}

func statusLabel(s model.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
