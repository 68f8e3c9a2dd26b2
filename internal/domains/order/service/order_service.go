package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/order/model"
	"shop-backend/internal/domains/order/repository"
	"shop-backend/internal/domains/payment/gateway"
	paymentModel "shop-backend/internal/domains/payment/model"
	voucherModel "shop-backend/internal/domains/voucher/model"
	voucherService "shop-backend/internal/domains/voucher/service"
	"shop-backend/internal/infrastructure/eventbus"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
	"shop-backend/internal/shared/utils"
	"shop-backend/pkg/logger"
)

const orderCodePrefix = "OD"

// PaymentStore là phần của payment repository mà order service ghi vào
type PaymentStore interface {
	SetPaymentCode(ctx context.Context, orderID uuid.UUID, paymentCode string) error
	MarkRefunded(ctx context.Context, orderID uuid.UUID, refundTransactionNo string) error
}

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	orderRepo repository.OrderRepository
	payments  PaymentStore
	vouchers  VoucherValidator
	gateway   gateway.Gateway
	notifier  shared.Notifier
	publisher eventbus.Publisher
	queue     queue.Enqueuer
	cart      CartCleaner
	now       func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	payments PaymentStore,
	vouchers VoucherValidator,
	gw gateway.Gateway,
	notifier shared.Notifier,
	publisher eventbus.Publisher,
	enqueuer queue.Enqueuer,
	cart CartCleaner,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		payments:  payments,
		vouchers:  vouchers,
		gateway:   gw,
		notifier:  notifier,
		publisher: publisher,
		queue:     enqueuer,
		cart:      cart,
		now:       time.Now,
	}
}

// =====================================================
// CREATE ORDER
// =====================================================

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	// 1. Trùng sản phẩm -> reject trước khi đụng vào DB
	seen := make(map[uuid.UUID]struct{}, len(req.Products))
	for _, item := range req.Products {
		if _, ok := seen[item.ProductID]; ok {
			return nil, model.NewOrderError(model.ErrCodeDuplicateProducts, "There are duplicate products", nil)
		}
		seen[item.ProductID] = struct{}{}
	}

	// 2. Voucher
	now := s.now()
	var voucher *voucherModel.Voucher
	if req.VoucherCode != "" {
		v, err := s.vouchers.ValidateForUser(ctx, req.VoucherCode, userID, now)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				return nil, err
			}
			return nil, model.NewOrderError(model.ErrCodeVoucherInvalid, "Voucher is not valid", err)
		}
		voucher = v
	}

	code, err := utils.GenerateCode(14)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to generate order code", err)
	}

	addressType := req.OrderAddressType
	if addressType == "" {
		addressType = "Home"
	}

	order := &model.Order{
		Code:             orderCodePrefix + code,
		UserID:           userID,
		ReceiverName:     req.ReceiverName,
		OrderPhone:       req.OrderPhone,
		OrderAddress:     req.OrderAddress,
		OrderAddressType: addressType,
		Reminder:         req.Reminder,
		Status:           model.OrderStatusWaiting,
		Payment: &paymentModel.OrderPayment{
			PaymentMethod: req.PaymentMethod,
			Status:        paymentModel.InitialStatus(req.PaymentMethod),
		},
	}

	// 3. Một transaction: trừ kho -> tính giá -> redeem voucher -> insert
	err = s.orderRepo.WithTx(ctx, func(tx repository.TxRepository) error {
		total := decimal.Zero
		details := make([]model.OrderDetail, 0, len(req.Products))

		for _, item := range req.Products {
			line, err := tx.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				if errors.Is(err, model.ErrProductNotFound) {
					return model.NewOrderError(model.ErrCodeProductNotFound,
						fmt.Sprintf("Product '#%s' not found", item.ProductID), err)
				}
				return err
			}
			if line.QuantityInStock < 0 {
				return model.NewOrderError(model.ErrCodeInsufficientStock,
					fmt.Sprintf("Product '#%s - %s - %s' does not have enough quantity in stock", line.ProductID, line.Name, line.Code), nil)
			}

			d := model.OrderDetail{
				ProductID:          line.ProductID,
				ProductName:        line.Name,
				ProductCode:        line.Code,
				Quantity:           item.Quantity,
				CurrentListedPrice: line.ListedPrice,
				CurrentSalePrice:   line.SalePrice,
			}
			total = total.Add(d.LineTotal())
			details = append(details, d)
		}

		if voucher != nil && !voucher.MeetsMinOrderPrice(total) {
			return model.NewOrderError(model.ErrCodeMinOrderPrice, "Order does not meet the minimum value of the voucher", nil)
		}

		if !voucherService.Applicable(total, voucher) {
			return model.NewOrderError(model.ErrCodeVoucherInvalid, "Voucher is not valid", nil)
		}

		price := voucherService.Calculate(total, voucher)
		order.OrderTotalPrice = price.Total
		order.OrderDiscount = price.Discount
		order.OrderFinalPrice = price.Final
		order.Details = details

		if voucher != nil {
			if err := tx.RedeemVoucher(ctx, voucher.ID, userID); err != nil {
				if errors.Is(err, model.ErrVoucherUnavailable) {
					return model.NewOrderError(model.ErrCodeVoucherInvalid, "Voucher is not valid", err)
				}
				return err
			}
			order.VoucherID = &voucher.ID
			order.VoucherCode = &voucher.Code
		}

		return tx.InsertOrder(ctx, order)
	})
	if err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		logger.Error("Failed to create order", err)
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to create order", err)
	}

	logger.Info("Order created", map[string]interface{}{
		"order_code":  order.Code,
		"user_id":     userID,
		"final_price": order.OrderFinalPrice.String(),
	})

	s.afterCreate(ctx, order)
	return order, nil
}

// afterCreate: fire-and-forget, lỗi chỉ log
func (s *orderService) afterCreate(ctx context.Context, order *model.Order) {
	productIDs := make([]uuid.UUID, len(order.Details))
	for i, d := range order.Details {
		productIDs[i] = d.ProductID
	}
	if err := s.cart.RemoveItems(ctx, order.UserID, productIDs); err != nil {
		logger.Error("Failed to remove ordered products from cart", err)
	}

	s.publish(ctx, shared.EventOrderCreated, order, map[string]interface{}{
		"order_id":       order.ID,
		"order_code":     order.Code,
		"user_id":        order.UserID,
		"payment_method": order.Payment.PaymentMethod,
		"final_price":    order.OrderFinalPrice,
	})

	s.notify(ctx, order.UserID,
		"Đặt hàng thành công đơn hàng #"+order.Code,
		"Đơn hàng #"+order.Code+" đã được tạo và đang chờ xác nhận",
		order.ID)
}

// =====================================================
// PAY ONLINE
// =====================================================

func (s *orderService) PayOnline(ctx context.Context, userID, orderID uuid.UUID, ipAddr string) (*model.PayOnlineResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil && !errors.Is(err, model.ErrOrderNotFound) {
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to get order", err)
	}

	payable := order != nil &&
		order.UserID == userID &&
		order.Status == model.OrderStatusWaiting &&
		order.IsOnline() &&
		order.PaymentStatus() != paymentModel.PaymentStatusCompleted &&
		order.PaymentStatus() != paymentModel.PaymentStatusRefunded
	if !payable {
		return nil, model.NewOrderError(model.ErrCodeOrderNotFound, "No order found to pay online", err)
	}

	payURL, err := s.gateway.CreatePaymentURL(ctx, gateway.PaymentRequest{
		OrderCode: order.Code,
		Amount:    order.OrderFinalPrice,
		OrderInfo: fmt.Sprintf("Thanh toán đơn hàng #%s. Số tiền %s VND", order.Code, order.OrderFinalPrice.StringFixed(0)),
		IPAddr:    ipAddr,
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.Error("Failed to create payment url", err)
		return nil, model.NewOrderError(model.ErrCodePaymentUnavailable, "Payment gateway is unavailable", err)
	}

	if err := s.payments.SetPaymentCode(ctx, order.ID, payURL.TxnRef); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInternal, "Failed to save payment code", err)
	}

	return &model.PayOnlineResponse{PaymentURL: payURL.URL, ExpiresAt: payURL.ExpiresAt}, nil
}

// =====================================================
// QUERIES
// =====================================================

func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID, req model.ListOrdersRequest) ([]*model.Order, int64, error) {
	req.UserID = &userID
	return s.ListOrders(ctx, req)
}

func (s *orderService) ListOrders(ctx context.Context, req model.ListOrdersRequest) ([]*model.Order, int64, error) {
	req.Normalize()
	orders, total, err := s.orderRepo.List(ctx, req)
	if err != nil {
		return nil, 0, model.NewOrderError(model.ErrCodeInternal, "Failed to list orders", err)
	}
	return orders, total, nil
}

func (s *orderService) GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// không lộ đơn của user khác
	if order.UserID != userID {
		return nil, model.NewOrderError(model.ErrCodeOrderNotFound, "No order found", nil)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapFindError(err)
	}
	return order, nil
}

func mapFindError(err error) error {
	if errors.Is(err, model.ErrOrderNotFound) {
		return model.NewOrderError(model.ErrCodeOrderNotFound, "No order found", err)
	}
	return model.NewOrderError(model.ErrCodeInternal, "Failed to get order", err)
}

// =====================================================
// RATING
// =====================================================

func (s *orderService) RateOrderDetail(ctx context.Context, userID, orderID uuid.UUID, req model.RatingRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewOrderError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	err := s.orderRepo.RateDetail(ctx, userID, orderID, req.ProductID, req.Stars, req.Content)
	if err != nil {
		if errors.Is(err, model.ErrDetailNotRatable) {
			return model.NewOrderError(model.ErrCodeRatingNotAllowed, "Purchased product not found need review", err)
		}
		return model.NewOrderError(model.ErrCodeInternal, "Failed to rate product", err)
	}
	return nil
}

// =====================================================
// SIDE EFFECTS
// =====================================================

func (s *orderService) notify(ctx context.Context, userID uuid.UUID, title, content string, orderID uuid.UUID) {
	if err := s.notifier.NotifyUser(ctx, userID, title, content, "/orders/"+orderID.String()); err != nil {
		logger.ErrorWithFields("Failed to notify user", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
	}
}

func (s *orderService) publish(ctx context.Context, eventType string, order *model.Order, payload map[string]interface{}) {
	if err := s.publisher.Publish(ctx, eventbus.Event{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Key:       order.Code,
		Payload:   payload,
		Timestamp: s.now(),
	}); err != nil {
		logger.Error("Failed to publish "+eventType, err)
	}
}
