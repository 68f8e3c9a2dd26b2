package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/domains/payment/gateway"
	"shop-backend/internal/domains/payment/gateway/vnpay"
	"shop-backend/internal/domains/payment/model"
	"shop-backend/internal/domains/payment/repository"
	"shop-backend/internal/infrastructure/eventbus"
	"shop-backend/internal/shared"
	"shop-backend/pkg/logger"
)

// CallbackService xử lý 2 kiểu callback của VNPay: return (browser redirect) và IPN
// (server-to-server). Cùng cách verify, khác body trả về
type CallbackService interface {
	HandleReturn(ctx context.Context, values url.Values) model.CallbackResponse
	HandleIPN(ctx context.Context, values url.Values) model.CallbackResponse
}

type callbackService struct {
	repo      repository.PaymentRepository
	gateway   gateway.Gateway
	notifier  shared.Notifier
	publisher eventbus.Publisher
}

func NewCallbackService(
	repo repository.PaymentRepository,
	gw gateway.Gateway,
	notifier shared.Notifier,
	publisher eventbus.Publisher,
) CallbackService {
	return &callbackService{
		repo:      repo,
		gateway:   gw,
		notifier:  notifier,
		publisher: publisher,
	}
}

// callbackParams các field VNPay gửi về mà service dùng
type callbackParams struct {
	TxnRef        string
	OrderCode     string
	ResponseCode  string
	TransactionNo string
	BankCode      string
	PayDate       string
	Amount        string
}

func parseCallback(values url.Values) callbackParams {
	txnRef := values.Get("vnp_TxnRef")
	orderCode, _ := vnpay.SplitTxnRef(txnRef)
	return callbackParams{
		TxnRef:        txnRef,
		OrderCode:     orderCode,
		ResponseCode:  values.Get("vnp_ResponseCode"),
		TransactionNo: values.Get("vnp_TransactionNo"),
		BankCode:      values.Get("vnp_BankCode"),
		PayDate:       values.Get("vnp_PayDate"),
		Amount:        values.Get("vnp_Amount"),
	}
}

// ========================================
// RETURN URL
// ========================================

func (s *callbackService) HandleReturn(ctx context.Context, values url.Values) model.CallbackResponse {
	p := parseCallback(values)
	valid := s.gateway.VerifyCallback(values)

	resp, processed := s.handle(ctx, p, valid, returnMessages)
	s.logCallback(ctx, model.CallbackSourceReturn, p, values, valid, processed)
	return resp
}

// ========================================
// IPN
// ========================================

func (s *callbackService) HandleIPN(ctx context.Context, values url.Values) model.CallbackResponse {
	p := parseCallback(values)
	valid := s.gateway.VerifyCallback(values)

	resp, processed := s.handle(ctx, p, valid, ipnMessages)
	s.logCallback(ctx, model.CallbackSourceIPN, p, values, valid, processed)
	return resp
}

type callbackMessages struct {
	invalidSignature string
	failed           string
	success          string
}

var (
	returnMessages = callbackMessages{
		invalidSignature: "The signature is invalid",
		failed:           "Payment failed",
		success:          "Payment success",
	}
	ipnMessages = callbackMessages{
		invalidSignature: "Fail checksum",
		failed:           "Fail payment",
		success:          "success",
	}
)

// handle: signature -> order -> amount -> trạng thái -> response code -> complete.
// processed = true khi lần callback này chuyển payment sang Completed
func (s *callbackService) handle(ctx context.Context, p callbackParams, valid bool, msg callbackMessages) (model.CallbackResponse, bool) {
	if !valid {
		return model.CallbackResponse{RspCode: model.RspInvalidSignature, Message: msg.invalidSignature}, false
	}

	target, err := s.repo.FindTargetByOrderCode(ctx, p.OrderCode)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			return model.CallbackResponse{RspCode: model.RspOrderNotFound, Message: "Order not found"}, false
		}
		logger.Error("Failed to load order for payment callback", err)
		return model.CallbackResponse{RspCode: model.RspUnknown, Message: "Unknown error"}, false
	}

	amount, err := vnpay.ParseAmount(p.Amount)
	if err != nil || !amount.Equal(target.Amount) {
		return model.CallbackResponse{RspCode: model.RspInvalidAmount, Message: "Invalid amount"}, false
	}

	if alreadyHandled(target) {
		return model.CallbackResponse{RspCode: model.RspAlreadyConfirmed, Message: "Order already confirmed"}, false
	}

	if p.ResponseCode != vnpay.ResponseCodeSuccess {
		return model.CallbackResponse{RspCode: p.ResponseCode, Message: msg.failed}, false
	}

	completed, err := s.repo.Complete(ctx, model.CompletePayment{
		OrderCode:     p.OrderCode,
		PaymentCode:   p.TxnRef,
		TransactionNo: p.TransactionNo,
		BankCode:      p.BankCode,
		PayDate:       p.PayDate,
	})
	if err != nil {
		logger.Error("Failed to complete payment", err)
		return model.CallbackResponse{RspCode: model.RspUnknown, Message: "Unknown error"}, false
	}
	if !completed {
		// callback trùng chạy song song, lần kia đã ghi nhận
		return model.CallbackResponse{RspCode: model.RspAlreadyConfirmed, Message: "Order already confirmed"}, false
	}

	logger.Info("Order paid online", map[string]interface{}{
		"order_code":     p.OrderCode,
		"transaction_no": p.TransactionNo,
	})
	s.afterPaid(ctx, target, p)

	return model.CallbackResponse{RspCode: model.RspSuccess, Message: msg.success}, true
}

func alreadyHandled(t *model.PaymentTarget) bool {
	return t.Payment.Status == model.PaymentStatusCompleted ||
		t.Payment.Status == model.PaymentStatusRefunded ||
		t.OrderStatus == "Canceled"
}

func (s *callbackService) afterPaid(ctx context.Context, t *model.PaymentTarget, p callbackParams) {
	if err := s.notifier.NotifyUser(ctx, t.UserID,
		"Thanh toán thành công đơn hàng #"+t.OrderCode,
		"Đơn hàng #"+t.OrderCode+" đã được thanh toán online thành công",
		"/orders/"+t.OrderID.String(),
	); err != nil {
		logger.Error("Failed to notify payment success", err)
	}

	if err := s.publisher.Publish(ctx, eventbus.Event{
		EventID: uuid.NewString(),
		Type:    shared.EventOrderPaid,
		Key:     t.OrderCode,
		Payload: map[string]interface{}{
			"order_id":       t.OrderID,
			"order_code":     t.OrderCode,
			"amount":         t.Amount,
			"transaction_no": p.TransactionNo,
		},
		Timestamp: time.Now(),
	}); err != nil {
		logger.Error("Failed to publish order.paid", err)
	}
}

func (s *callbackService) logCallback(ctx context.Context, source model.CallbackSource, p callbackParams, values url.Values, valid, processed bool) {
	payload := make(map[string]string, len(values))
	for k := range values {
		payload[k] = values.Get(k)
	}

	if err := s.repo.LogCallback(ctx, &model.CallbackLog{
		OrderCode:      p.OrderCode,
		TransactionNo:  p.TransactionNo,
		Source:         source,
		ResponseCode:   p.ResponseCode,
		SignatureValid: valid,
		Processed:      processed,
		Payload:        payload,
	}); err != nil {
		logger.Error("Failed to log payment callback", err)
	}
}
