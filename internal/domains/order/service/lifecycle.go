package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"shop-backend/internal/domains/order/model"
	"shop-backend/internal/domains/order/repository"
	"shop-backend/internal/domains/payment/gateway"
	paymentModel "shop-backend/internal/domains/payment/model"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
	"shop-backend/pkg/logger"
)

// =====================================================
// ADMIN TRANSITIONS
// =====================================================

func (s *orderService) Confirm(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, orderID, model.OrderStatusConfirmed, func(o *model.Order) error {
		// Online phải thanh toán xong mới được xác nhận
		if o.IsOnline() && o.PaymentStatus() != paymentModel.PaymentStatusCompleted {
			return model.NewOrderError(model.ErrCodeNotPaidOnline, "Order has not been successfully paid online", nil)
		}
		return nil
	})
}

func (s *orderService) Ship(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, orderID, model.OrderStatusShipping, nil)
}

func (s *orderService) Unclaim(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, orderID, model.OrderStatusUnclaimed, nil)
}

// Complete: giao thành công, COD coi như đã thu tiền
func (s *orderService) Complete(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	var order *model.Order
	err := s.orderRepo.WithTx(ctx, func(tx repository.TxRepository) error {
		o, err := tx.FindForUpdate(ctx, orderID)
		if err != nil {
			return mapFindError(err)
		}
		if !o.Status.CanTransitionTo(model.OrderStatusCompleted) {
			return invalidTransition(o.Status, model.OrderStatusCompleted)
		}

		if err := tx.UpdateStatus(ctx, orderID, model.AllowedFrom(model.OrderStatusCompleted), model.OrderStatusCompleted, nil); err != nil {
			return err
		}
		if err := tx.SetPaymentStatus(ctx, orderID, paymentModel.PaymentStatusCompleted); err != nil {
			return err
		}

		o.Status = model.OrderStatusCompleted
		if o.Payment != nil {
			o.Payment.Status = paymentModel.PaymentStatusCompleted
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, mapTxError(err, "Failed to complete order")
	}

	s.afterStatusChange(ctx, order)
	return order, nil
}

// transition đọc order, kiểm tra guard rồi UPDATE có điều kiện status
func (s *orderService) transition(ctx context.Context, orderID uuid.UUID, next model.OrderStatus, guard func(*model.Order) error) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapFindError(err)
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, invalidTransition(order.Status, next)
	}
	if guard != nil {
		if err := guard(order); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, model.AllowedFrom(next), next); err != nil {
		return nil, mapTxError(err, "Failed to update order status")
	}

	order.Status = next
	s.afterStatusChange(ctx, order)
	return order, nil
}

func invalidTransition(from, to model.OrderStatus) error {
	return model.NewOrderError(model.ErrCodeInvalidStatus,
		fmt.Sprintf("Cannot change order status from %s to %s", from, to), nil)
}

// mapTxError giữ nguyên lỗi nghiệp vụ, còn lại bọc Internal
func mapTxError(err error, msg string) error {
	if apperr.As(err) != nil {
		return err
	}
	if errors.Is(err, model.ErrStatusChanged) {
		return model.NewOrderError(model.ErrCodeInvalidStatus, "Order status has been changed, please reload", err)
	}
	logger.Error(msg, err)
	return model.NewOrderError(model.ErrCodeInternal, msg, err)
}

// =====================================================
// CANCEL
// =====================================================

func (s *orderService) CancelMyOrder(ctx context.Context, userID, orderID uuid.UUID, ipAddr string) (*model.CancelResult, error) {
	return s.cancel(ctx, orderID, cancelOptions{
		from: []model.OrderStatus{model.OrderStatusWaiting},
		check: func(o *model.Order) error {
			if o.UserID != userID {
				return model.NewOrderError(model.ErrCodeOrderNotFound, "No order found", nil)
			}
			if !o.Status.CanBeCanceledByUser() {
				return model.NewOrderError(model.ErrCodeCannotCancel, "You cannot cancel a confirmed order", nil)
			}
			return nil
		},
		createBy: userID.String(),
		ipAddr:   ipAddr,
	})
}

func (s *orderService) AdminCancel(ctx context.Context, adminID, orderID uuid.UUID, req model.AdminCancelRequest, ipAddr string) (*model.CancelResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	return s.cancel(ctx, orderID, cancelOptions{
		from: model.CancelableStatuses,
		check: func(o *model.Order) error {
			if !o.Status.CanBeCanceledByAdmin() {
				return model.NewOrderError(model.ErrCodeCannotCancel,
					fmt.Sprintf("Order with status %s cannot be canceled", o.Status), nil)
			}
			return nil
		},
		reason:   reason,
		createBy: adminID.String(),
		ipAddr:   ipAddr,
	})
}

type cancelOptions struct {
	from     []model.OrderStatus
	check    func(*model.Order) error
	reason   *string
	createBy string
	ipAddr   string
}

// cancel: huỷ + hoàn kho trong một transaction. Đơn Online đã thanh toán
// được refund SAU commit; refund lỗi không rollback, chỉ đổi message
func (s *orderService) cancel(ctx context.Context, orderID uuid.UUID, opts cancelOptions) (*model.CancelResult, error) {
	var order *model.Order
	err := s.orderRepo.WithTx(ctx, func(tx repository.TxRepository) error {
		o, err := tx.FindForUpdate(ctx, orderID)
		if err != nil {
			return mapFindError(err)
		}
		if err := opts.check(o); err != nil {
			return err
		}

		if err := tx.UpdateStatus(ctx, orderID, opts.from, model.OrderStatusCanceled, opts.reason); err != nil {
			return err
		}
		for _, d := range o.Details {
			if err := tx.RestoreStock(ctx, d.ProductID, d.Quantity); err != nil {
				return err
			}
		}

		if o.IsOnline() && o.PaymentStatus() != paymentModel.PaymentStatusCompleted {
			if err := tx.SetPaymentStatus(ctx, orderID, paymentModel.PaymentStatusIncomplete); err != nil {
				return err
			}
			o.Payment.Status = paymentModel.PaymentStatusIncomplete
		}

		o.Status = model.OrderStatusCanceled
		o.CancelReason = opts.reason
		order = o
		return nil
	})
	if err != nil {
		return nil, mapTxError(err, "Failed to cancel order")
	}

	logger.Info("Order canceled", map[string]interface{}{
		"order_code": order.Code,
		"by":         opts.createBy,
	})

	result := &model.CancelResult{Message: fmt.Sprintf("Cancel order #%s successfully", order.Code)}
	if order.IsOnline() && order.PaymentStatus() == paymentModel.PaymentStatusCompleted {
		if s.refund(ctx, order, opts) {
			result.Refunded = true
			result.Message = fmt.Sprintf("Cancel and refund order #%s successfully", order.Code)
		} else {
			result.Message = fmt.Sprintf("Cancel order #%s successfully but refund failed", order.Code)
		}
	}

	s.afterStatusChange(ctx, order)
	return result, nil
}

// refund toàn phần qua gateway, true khi gateway xác nhận thành công
func (s *orderService) refund(ctx context.Context, order *model.Order, opts cancelOptions) bool {
	p := order.Payment
	if p.PaymentCode == nil || p.TransactionNo == nil {
		logger.Warn("Paid order has no transaction info, skip refund", map[string]interface{}{
			"order_code": order.Code,
		})
		return false
	}

	res, err := s.gateway.Refund(ctx, gateway.RefundRequest{
		TxnRef:        *p.PaymentCode,
		TransactionNo: *p.TransactionNo,
		Amount:        order.OrderFinalPrice,
		OrderInfo:     fmt.Sprintf("Hoàn tiền đơn hàng #%s", order.Code),
		CreateBy:      opts.createBy,
		IPAddr:        opts.ipAddr,
	})
	if err != nil {
		logger.ErrorWithFields("Refund request failed", err, map[string]interface{}{"order_code": order.Code})
		return false
	}
	if !res.Success {
		logger.Warn("Refund rejected by gateway", map[string]interface{}{
			"order_code":    order.Code,
			"response_code": res.ResponseCode,
			"message":       res.Message,
		})
		return false
	}

	if err := s.payments.MarkRefunded(ctx, order.ID, res.Raw["vnp_TransactionNo"]); err != nil {
		// tiền đã hoàn, chỉ trạng thái DB bị lệch -> log để đối soát
		logger.ErrorWithFields("Failed to mark payment refunded", err, map[string]interface{}{"order_code": order.Code})
	} else {
		p.Status = paymentModel.PaymentStatusRefunded
	}

	s.publish(ctx, shared.EventOrderRefunded, order, map[string]interface{}{
		"order_id":   order.ID,
		"order_code": order.Code,
		"amount":     order.OrderFinalPrice,
	})
	return true
}

// =====================================================
// AFTER STATUS CHANGE
// =====================================================

func (s *orderService) afterStatusChange(ctx context.Context, order *model.Order) {
	s.notify(ctx, order.UserID,
		"Cập nhật trạng thái đơn hàng #"+order.Code,
		"Đơn hàng đã chuyển sang trạng thái "+string(order.Status),
		order.ID)

	s.publish(ctx, shared.EventOrderStatusChanged, order, map[string]interface{}{
		"order_id":   order.ID,
		"order_code": order.Code,
		"status":     order.Status,
	})

	if _, err := queue.EnqueueJSON(ctx, s.queue, shared.TypeOrderStatusEmail,
		shared.OrderStatusEmailPayload{OrderID: order.ID, Status: string(order.Status)},
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
	); err != nil {
		logger.Error("Failed to enqueue order status email", err)
	}
}
