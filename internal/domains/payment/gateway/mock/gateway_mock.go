package mock

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"shop-backend/internal/domains/payment/gateway"
)

// =====================================================
// MOCK GATEWAY FOR TESTING / LOCAL DEV
// =====================================================

// Gateway giả lập cổng thanh toán: URL không ký, callback hợp lệ khi
// vnp_SecureHash == "valid", refund thành công trừ khi SetFailRefund(true)
type Gateway struct {
	mu                sync.Mutex
	shouldFailPayment bool
	shouldFailRefund  bool
	refundErr         error
	Refunds           []gateway.RefundRequest
}

var _ gateway.Gateway = (*Gateway)(nil)

func NewGateway() *Gateway {
	return &Gateway{}
}

func (m *Gateway) CreatePaymentURL(_ context.Context, req gateway.PaymentRequest) (*gateway.PaymentURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFailPayment {
		return nil, fmt.Errorf("mock payment creation failed")
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	txnRef := req.OrderCode + "-" + createdAt.Format("20060102150405")

	return &gateway.PaymentURL{
		URL:       fmt.Sprintf("https://mock-vnpay.local/pay?vnp_TxnRef=%s&vnp_Amount=%s", txnRef, req.Amount.StringFixed(0)),
		TxnRef:    txnRef,
		ExpiresAt: createdAt.Add(15 * time.Minute),
	}, nil
}

func (m *Gateway) VerifyCallback(values url.Values) bool {
	return values.Get("vnp_SecureHash") == "valid"
}

func (m *Gateway) Refund(_ context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refunds = append(m.Refunds, req)

	if m.refundErr != nil {
		return nil, m.refundErr
	}
	if m.shouldFailRefund {
		return &gateway.RefundResult{Success: false, ResponseCode: "94", Message: "Mock refund failed"}, nil
	}
	return &gateway.RefundResult{Success: true, ResponseCode: "00", Message: "Mock refund success"}, nil
}

func (m *Gateway) SetFailPayment(shouldFail bool) {
	m.mu.Lock()
	m.shouldFailPayment = shouldFail
	m.mu.Unlock()
}

func (m *Gateway) SetFailRefund(shouldFail bool) {
	m.mu.Lock()
	m.shouldFailRefund = shouldFail
	m.mu.Unlock()
}

// SetRefundError giả lập lỗi transport khi gọi refund
func (m *Gateway) SetRefundError(err error) {
	m.mu.Lock()
	m.refundErr = err
	m.mu.Unlock()
}

func (m *Gateway) RefundCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Refunds)
}
