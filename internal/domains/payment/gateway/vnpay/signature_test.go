package vnpay

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "SECRETKEY123"

func TestSignData(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":         "OD1-20260101120000",
		"vnp_Amount":         "3200000",
		"vnp_OrderInfo":      "Thanh toan don hang #OD1",
		"vnp_BankCode":       "",
		"vnp_SecureHash":     "ignored",
		"vnp_SecureHashType": "SHA512",
	}

	got := SignData(params)
	assert.Equal(t, "vnp_Amount=3200000&vnp_OrderInfo=Thanh+toan+don+hang+%23OD1&vnp_TxnRef=OD1-20260101120000", got)
}

func TestSign_IsHexSHA512(t *testing.T) {
	sig := Sign("a=1", testSecret)
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, Sign("a=1", testSecret))
	assert.NotEqual(t, sig, Sign("a=2", testSecret))
	assert.NotEqual(t, sig, Sign("a=1", "other"))
}

func signedValues(t *testing.T, params map[string]string) url.Values {
	t.Helper()
	raw := BuildPaymentURL("https://sandbox.vnpayment.vn/paymentv2/vpcpay.html", params, testSecret)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestVerifyValues(t *testing.T) {
	params := map[string]string{
		"vnp_Amount":        "3200000",
		"vnp_BankCode":      "NCB",
		"vnp_OrderInfo":     "Thanh toán đơn hàng #OD1 tại shop. Số tiền 32000 VND",
		"vnp_ResponseCode":  "00",
		"vnp_TmnCode":       "DEMO",
		"vnp_TransactionNo": "14012345",
		"vnp_TxnRef":        "OD1-20260101120000",
	}

	t.Run("round trip", func(t *testing.T) {
		values := signedValues(t, params)
		assert.True(t, VerifyValues(values, testSecret))
	})

	t.Run("lowercase signature accepted", func(t *testing.T) {
		values := signedValues(t, params)
		values.Set(paramSecureHash, strings.ToLower(values.Get(paramSecureHash)))
		assert.True(t, VerifyValues(values, testSecret))
	})

	t.Run("secure hash type ignored", func(t *testing.T) {
		values := signedValues(t, params)
		values.Set(paramSecureHashType, "HmacSHA512")
		assert.True(t, VerifyValues(values, testSecret))
	})

	t.Run("tampered amount", func(t *testing.T) {
		values := signedValues(t, params)
		values.Set("vnp_Amount", "100")
		assert.False(t, VerifyValues(values, testSecret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		values := signedValues(t, params)
		assert.False(t, VerifyValues(values, "WRONG"))
	})

	t.Run("missing signature", func(t *testing.T) {
		values := signedValues(t, params)
		values.Del(paramSecureHash)
		assert.False(t, VerifyValues(values, testSecret))
	})
}

func TestPipeHash(t *testing.T) {
	a := pipeHash(testSecret, "REQ1", "2.1.0", "refund")
	assert.Equal(t, Sign("REQ1|2.1.0|refund", testSecret), a)
	assert.NotEqual(t, a, pipeHash(testSecret, "REQ1", "2.1.0", "refund", ""))
}
