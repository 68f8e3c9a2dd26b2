package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Gateway là adapter cho cổng thanh toán online (VNPay)
type Gateway interface {
	// CreatePaymentURL sinh URL redirect đã ký
	CreatePaymentURL(ctx context.Context, req PaymentRequest) (*PaymentURL, error)

	// VerifyCallback kiểm tra chữ ký của return/IPN query
	VerifyCallback(values url.Values) bool

	// Refund gọi API hoàn tiền. error chỉ khi lỗi transport,
	// gateway từ chối thì RefundResult.Success = false
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}

// =====================================================
// REQUEST/RESPONSE TYPES
// =====================================================

type PaymentRequest struct {
	OrderCode string
	Amount    decimal.Decimal // VND
	OrderInfo string
	IPAddr    string
	CreatedAt time.Time
}

type PaymentURL struct {
	URL       string
	TxnRef    string // <orderCode>-<yyyyMMddHHmmss>
	ExpiresAt time.Time
}

type RefundRequest struct {
	TxnRef        string // payment code lúc tạo URL
	TransactionNo string
	Amount        decimal.Decimal
	OrderInfo     string
	CreateBy      string
	IPAddr        string
	Partial       bool
}

type RefundResult struct {
	Success      bool
	ResponseCode string
	Message      string
	Raw          map[string]string
}
