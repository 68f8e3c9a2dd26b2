package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT METHOD / STATUS
// =====================================================

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "Online"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

type PaymentStatus string

const (
	PaymentStatusWaiting    PaymentStatus = "Waiting"
	PaymentStatusIncomplete PaymentStatus = "Incomplete"
	PaymentStatusCompleted  PaymentStatus = "Completed"
	PaymentStatusRefunded   PaymentStatus = "Refunded"
)

// InitialStatus: COD chờ thu tiền khi giao (Incomplete), Online chờ redirect (Waiting)
func InitialStatus(method PaymentMethod) PaymentStatus {
	if method == PaymentMethodCOD {
		return PaymentStatusIncomplete
	}
	return PaymentStatusWaiting
}

// =====================================================
// ENTITIES
// =====================================================

type OrderPayment struct {
	ID                  uuid.UUID     `json:"id"`
	OrderID             uuid.UUID     `json:"order_id"`
	PaymentMethod       PaymentMethod `json:"payment_method"`
	Status              PaymentStatus `json:"status"`
	PaymentCode         *string       `json:"payment_code,omitempty"` // vnp_TxnRef
	TransactionNo       *string       `json:"transaction_no,omitempty"`
	BankCode            *string       `json:"bank_code,omitempty"`
	PayDate             *string       `json:"pay_date,omitempty"`
	RefundTransactionNo *string       `json:"refund_transaction_no,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (p *OrderPayment) IsPaidOnline() bool {
	return p.PaymentMethod == PaymentMethodOnline && p.Status == PaymentStatusCompleted
}

// PaymentTarget là order + payment mà callback trỏ tới (qua order code)
type PaymentTarget struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderCode   string          `json:"order_code"`
	UserID      uuid.UUID       `json:"user_id"`
	OrderStatus string          `json:"order_status"`
	Amount      decimal.Decimal `json:"amount"`
	Payment     OrderPayment    `json:"payment"`
}

// CompletePayment dữ liệu ghi nhận khi gateway báo thành công
type CompletePayment struct {
	OrderCode     string
	PaymentCode   string
	TransactionNo string
	BankCode      string
	PayDate       string
}

type CallbackSource string

const (
	CallbackSourceReturn CallbackSource = "return"
	CallbackSourceIPN    CallbackSource = "ipn"
)

// CallbackLog audit mọi callback gateway gửi về
type CallbackLog struct {
	ID             uuid.UUID         `json:"id"`
	OrderCode      string            `json:"order_code"`
	TransactionNo  string            `json:"transaction_no"`
	Source         CallbackSource    `json:"source"`
	ResponseCode   string            `json:"response_code"`
	SignatureValid bool              `json:"signature_valid"`
	Processed      bool              `json:"processed"`
	Payload        map[string]string `json:"payload"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CallbackResponse body trả cho VNPay / frontend
type CallbackResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}
