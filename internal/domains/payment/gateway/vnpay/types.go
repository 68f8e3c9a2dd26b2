package vnpay

// =====================================================
// VNPAY REFUND API TYPES
// =====================================================

// RefundRequest body của POST /merchant_webapi/api/transaction
type RefundRequest struct {
	RequestID       string `json:"vnp_RequestId"`
	Version         string `json:"vnp_Version"`
	Command         string `json:"vnp_Command"`
	TmnCode         string `json:"vnp_TmnCode"`
	TransactionType string `json:"vnp_TransactionType"`
	TxnRef          string `json:"vnp_TxnRef"`
	Amount          int64  `json:"vnp_Amount"`
	OrderInfo       string `json:"vnp_OrderInfo"`
	TransactionNo   string `json:"vnp_TransactionNo"`
	TransactionDate string `json:"vnp_TransactionDate"`
	CreateBy        string `json:"vnp_CreateBy"`
	CreateDate      string `json:"vnp_CreateDate"`
	IpAddr          string `json:"vnp_IpAddr"`
	SecureHash      string `json:"vnp_SecureHash"`
}

// RefundResponse các field VNPay trả về (đủ để verify chữ ký)
type RefundResponse struct {
	ResponseID        string `json:"vnp_ResponseId"`
	Command           string `json:"vnp_Command"`
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TmnCode           string `json:"vnp_TmnCode"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionType   string `json:"vnp_TransactionType"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	OrderInfo         string `json:"vnp_OrderInfo"`
	SecureHash        string `json:"vnp_SecureHash"`
}

func (r *RefundRequest) signFields() []string {
	return []string{
		r.RequestID, r.Version, r.Command, r.TmnCode, r.TransactionType, r.TxnRef,
		formatInt(r.Amount), r.TransactionNo, r.TransactionDate, r.CreateBy, r.CreateDate,
		r.IpAddr, r.OrderInfo,
	}
}

func (r *RefundResponse) signFields() []string {
	return []string{
		r.ResponseID, r.Command, r.ResponseCode, r.Message, r.TmnCode, r.TxnRef,
		r.Amount, r.BankCode, r.PayDate, r.TransactionNo, r.TransactionType,
		r.TransactionStatus, r.OrderInfo,
	}
}

func (r *RefundResponse) toMap() map[string]string {
	return map[string]string{
		"vnp_ResponseId":        r.ResponseID,
		"vnp_Command":           r.Command,
		"vnp_ResponseCode":      r.ResponseCode,
		"vnp_Message":           r.Message,
		"vnp_TmnCode":           r.TmnCode,
		"vnp_TxnRef":            r.TxnRef,
		"vnp_Amount":            r.Amount,
		"vnp_BankCode":          r.BankCode,
		"vnp_PayDate":           r.PayDate,
		"vnp_TransactionNo":     r.TransactionNo,
		"vnp_TransactionType":   r.TransactionType,
		"vnp_TransactionStatus": r.TransactionStatus,
		"vnp_OrderInfo":         r.OrderInfo,
	}
}
