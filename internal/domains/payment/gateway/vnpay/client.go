package vnpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/payment/gateway"
	"shop-backend/pkg/logger"
)

// =====================================================
// VNPAY CLIENT
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
	now        func() time.Time
}

var _ gateway.Gateway = (*Client)(nil)

func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid VNPay config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}, nil
}

// =====================================================
// CREATE PAYMENT URL
// =====================================================

func (c *Client) CreatePaymentURL(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentURL, error) {
	if req.OrderCode == "" {
		return nil, fmt.Errorf("order_code is required")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = c.now()
	}
	expiresAt := createdAt.Add(c.config.PaymentExpiry)
	txnRef := BuildTxnRef(req.OrderCode, createdAt)

	params := map[string]string{
		"vnp_Version":    c.config.Version,
		"vnp_Command":    c.config.Command,
		"vnp_TmnCode":    c.config.TmnCode,
		"vnp_Amount":     formatAmount(req.Amount),
		"vnp_CurrCode":   c.config.CurrCode,
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  c.config.OrderType,
		"vnp_Locale":     c.config.Locale,
		"vnp_ReturnUrl":  c.config.ReturnURL,
		"vnp_IpAddr":     normalizeIP(req.IPAddr),
		"vnp_CreateDate": createdAt.Format(dateLayout),
		"vnp_ExpireDate": expiresAt.Format(dateLayout),
	}

	return &gateway.PaymentURL{
		URL:       BuildPaymentURL(c.config.GetPaymentURL(), params, c.config.HashSecret),
		TxnRef:    txnRef,
		ExpiresAt: expiresAt,
	}, nil
}

// BuildTxnRef: <orderCode>-<yyyyMMddHHmmss>
func BuildTxnRef(orderCode string, createdAt time.Time) string {
	return orderCode + "-" + createdAt.Format(dateLayout)
}

// SplitTxnRef tách order code và ngày tạo giao dịch từ vnp_TxnRef
func SplitTxnRef(txnRef string) (orderCode, transactionDate string) {
	orderCode, transactionDate, _ = strings.Cut(txnRef, "-")
	return orderCode, transactionDate
}

// formatAmount: VND làm tròn * 100. 100,000 VND -> "10000000"
func formatAmount(amount decimal.Decimal) string {
	return amount.Round(0).Mul(decimal.NewFromInt(100)).StringFixed(0)
}

// ParseAmount ngược lại formatAmount
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amountInt, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	return decimal.NewFromInt(amountInt).Div(decimal.NewFromInt(100)), nil
}

// VNPay chỉ nhận IPv4
func normalizeIP(ip string) string {
	if ip == "" || ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}

// =====================================================
// VERIFY CALLBACK
// =====================================================

func (c *Client) VerifyCallback(values url.Values) bool {
	return VerifyValues(values, c.config.HashSecret)
}

// =====================================================
// REFUND
// =====================================================

func (c *Client) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error) {
	if req.TxnRef == "" || req.TransactionNo == "" {
		return nil, fmt.Errorf("txn_ref and transaction_no are required")
	}

	_, transactionDate := SplitTxnRef(req.TxnRef)
	if transactionDate == "" {
		return nil, fmt.Errorf("txn_ref %q has no transaction date", req.TxnRef)
	}

	now := c.now()
	transactionType := RefundTypeFull
	if req.Partial {
		transactionType = RefundTypePartial
	}

	body := RefundRequest{
		RequestID:       req.TxnRef + "-" + now.Format(dateLayout),
		Version:         c.config.Version,
		Command:         "refund",
		TmnCode:         c.config.TmnCode,
		TransactionType: transactionType,
		TxnRef:          req.TxnRef,
		Amount:          req.Amount.Round(0).Mul(decimal.NewFromInt(100)).IntPart(),
		OrderInfo:       req.OrderInfo,
		TransactionNo:   req.TransactionNo,
		TransactionDate: transactionDate,
		CreateBy:        req.CreateBy,
		CreateDate:      now.Format(dateLayout),
		IpAddr:          normalizeIP(req.IPAddr),
	}
	body.SecureHash = pipeHash(c.config.HashSecret, body.signFields()...)

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GetRefundURL(), bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call VNPay API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var respData RefundResponse
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	result := &gateway.RefundResult{
		ResponseCode: respData.ResponseCode,
		Message:      respData.Message,
		Raw:          respData.toMap(),
	}

	validSignature := equalSignature(respData.SecureHash, pipeHash(c.config.HashSecret, respData.signFields()...))
	result.Success = respData.ResponseCode == ResponseCodeSuccess && validSignature

	if !validSignature {
		logger.Warn("VNPay refund response signature mismatch", map[string]interface{}{
			"txn_ref":       req.TxnRef,
			"response_code": respData.ResponseCode,
		})
	}
	if result.Message == "" {
		result.Message = GetResponseMessage(respData.ResponseCode)
	}

	return result, nil
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
