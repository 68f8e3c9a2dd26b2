package vnpay

import (
	"fmt"
	"strings"
	"time"

	"shop-backend/internal/config"
)

// =====================================================
// VNPAY CONFIGURATION
// =====================================================

type Config struct {
	TmnCode       string // Merchant code (provided by VNPay)
	HashSecret    string // Secret key for HMAC-SHA512 signature
	APIUrl        string // VNPay base URL (sandbox / production)
	ReturnURL     string // Frontend callback URL
	Version       string // default "2.1.0"
	Command       string // default "pay"
	CurrCode      string // default "VND"
	Locale        string // default "vn"
	OrderType     string // default "billpayment"
	PaymentExpiry time.Duration
}

// NewConfig map từ app config, điền default của VNPay
func NewConfig(cfg config.VNPayConfig) *Config {
	expiry := cfg.PaymentExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Config{
		TmnCode:       cfg.TmnCode,
		HashSecret:    cfg.HashSecret,
		APIUrl:        strings.TrimRight(cfg.APIURL, "/"),
		ReturnURL:     cfg.ReturnURL,
		Version:       "2.1.0",
		Command:       "pay",
		CurrCode:      "VND",
		Locale:        "vn",
		OrderType:     "billpayment",
		PaymentExpiry: expiry,
	}
}

func (c *Config) Validate() error {
	if c.TmnCode == "" {
		return fmt.Errorf("VNPay TmnCode is required")
	}
	if c.HashSecret == "" {
		return fmt.Errorf("VNPay HashSecret is required")
	}
	if c.APIUrl == "" {
		return fmt.Errorf("VNPay APIUrl is required")
	}
	if c.ReturnURL == "" {
		return fmt.Errorf("VNPay ReturnURL is required")
	}
	return nil
}

func (c *Config) GetPaymentURL() string {
	return c.APIUrl + "/paymentv2/vpcpay.html"
}

func (c *Config) GetRefundURL() string {
	return c.APIUrl + "/merchant_webapi/api/transaction"
}

// =====================================================
// VNPAY CONSTANTS
// =====================================================

const (
	dateLayout = "20060102150405"

	ResponseCodeSuccess               = "00"
	ResponseCodeSuspicious            = "07"
	ResponseCodeNotRegistered         = "09"
	ResponseCodeAuthFailed            = "10"
	ResponseCodeTimeout               = "11"
	ResponseCodeCardLocked            = "12"
	ResponseCodeIncorrectOTP          = "13"
	ResponseCodeUserCancelled         = "24"
	ResponseCodeInsufficientBalance   = "51"
	ResponseCodeLimitExceeded         = "65"
	ResponseCodeBankMaintenance       = "75"
	ResponseCodePasswordRetryExceeded = "79"

	RefundTypeFull    = "02"
	RefundTypePartial = "03"
)

// GetResponseMessage trả message tiếng Việt cho vnp_ResponseCode
func GetResponseMessage(code string) string {
	messages := map[string]string{
		ResponseCodeSuccess:               "Giao dịch thành công",
		ResponseCodeSuspicious:            "Trừ tiền thành công. Giao dịch bị nghi ngờ",
		ResponseCodeNotRegistered:         "Thẻ/Tài khoản chưa đăng ký InternetBanking",
		ResponseCodeAuthFailed:            "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
		ResponseCodeTimeout:               "Đã hết hạn chờ thanh toán",
		ResponseCodeCardLocked:            "Thẻ/Tài khoản bị khóa",
		ResponseCodeIncorrectOTP:          "Nhập sai mật khẩu xác thực giao dịch (OTP)",
		ResponseCodeUserCancelled:         "Khách hàng hủy giao dịch",
		ResponseCodeInsufficientBalance:   "Tài khoản không đủ số dư",
		ResponseCodeLimitExceeded:         "Vượt quá hạn mức giao dịch trong ngày",
		ResponseCodeBankMaintenance:       "Ngân hàng thanh toán đang bảo trì",
		ResponseCodePasswordRetryExceeded: "Nhập sai mật khẩu thanh toán quá số lần quy định",
	}

	if msg, exists := messages[code]; exists {
		return msg
	}
	return "Lỗi không xác định"
}
