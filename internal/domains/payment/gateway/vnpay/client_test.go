package vnpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/config"
	"shop-backend/internal/domains/payment/gateway"
)

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, apiURL string) *Client {
	t.Helper()
	c, err := NewClient(NewConfig(config.VNPayConfig{
		TmnCode:    "DEMO",
		HashSecret: testSecret,
		APIURL:     apiURL,
		ReturnURL:  "http://localhost:3000/payment/vnpay-return",
	}))
	require.NoError(t, err)
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(NewConfig(config.VNPayConfig{APIURL: "https://sandbox.vnpayment.vn"}))
	assert.Error(t, err)
}

func TestClient_CreatePaymentURL(t *testing.T) {
	c := newTestClient(t, "https://sandbox.vnpayment.vn")

	res, err := c.CreatePaymentURL(context.Background(), gateway.PaymentRequest{
		OrderCode: "OD123",
		Amount:    decimal.NewFromInt(32000),
		OrderInfo: "Thanh toán đơn hàng #OD123",
		IPAddr:    "::1",
		CreatedAt: fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "OD123-20260101120000", res.TxnRef)
	assert.Equal(t, fixedNow.Add(15*time.Minute), res.ExpiresAt)

	u, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, "/paymentv2/vpcpay.html", u.Path)

	q := u.Query()
	assert.Equal(t, "3200000", q.Get("vnp_Amount"))
	assert.Equal(t, "2.1.0", q.Get("vnp_Version"))
	assert.Equal(t, "pay", q.Get("vnp_Command"))
	assert.Equal(t, "VND", q.Get("vnp_CurrCode"))
	assert.Equal(t, "billpayment", q.Get("vnp_OrderType"))
	assert.Equal(t, "127.0.0.1", q.Get("vnp_IpAddr"))
	assert.Equal(t, "20260101121500", q.Get("vnp_ExpireDate"))
	assert.True(t, c.VerifyCallback(q))
}

func TestClient_CreatePaymentURL_RejectsZeroAmount(t *testing.T) {
	c := newTestClient(t, "https://sandbox.vnpayment.vn")
	_, err := c.CreatePaymentURL(context.Background(), gateway.PaymentRequest{OrderCode: "OD1", Amount: decimal.Zero})
	assert.Error(t, err)
}

func TestSplitTxnRef(t *testing.T) {
	code, date := SplitTxnRef("OD123-20260101120000")
	assert.Equal(t, "OD123", code)
	assert.Equal(t, "20260101120000", date)

	code, date = SplitTxnRef("OD123")
	assert.Equal(t, "OD123", code)
	assert.Empty(t, date)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("3200000")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(32000)))

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}

func refundServer(t *testing.T, responseCode string, tamper bool) (*httptest.Server, *RefundRequest) {
	t.Helper()
	received := &RefundRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchant_webapi/api/transaction", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(received))

		resp := RefundResponse{
			ResponseID:        "RESP1",
			Command:           "refund",
			ResponseCode:      responseCode,
			Message:           "Refund success",
			TmnCode:           received.TmnCode,
			TxnRef:            received.TxnRef,
			Amount:            "3200000",
			BankCode:          "NCB",
			PayDate:           "20260101130000",
			TransactionNo:     received.TransactionNo,
			TransactionType:   received.TransactionType,
			TransactionStatus: "05",
			OrderInfo:         received.OrderInfo,
		}
		resp.SecureHash = pipeHash(testSecret, resp.signFields()...)
		if tamper {
			resp.Amount = "1"
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func refundRequest() gateway.RefundRequest {
	return gateway.RefundRequest{
		TxnRef:        "OD123-20260101120000",
		TransactionNo: "14012345",
		Amount:        decimal.NewFromInt(32000),
		OrderInfo:     "Hoàn tiền đơn hàng #OD123",
		CreateBy:      "admin",
		IPAddr:        "10.0.0.1",
	}
}

func TestClient_Refund(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv, received := refundServer(t, "00", false)
		c := newTestClient(t, srv.URL)

		res, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.True(t, res.Success)

		assert.Equal(t, "02", received.TransactionType)
		assert.Equal(t, "20260101120000", received.TransactionDate)
		assert.Equal(t, int64(3200000), received.Amount)
		assert.Equal(t, pipeHash(testSecret, received.signFields()...), received.SecureHash)
	})

	t.Run("gateway rejects", func(t *testing.T) {
		srv, _ := refundServer(t, "94", false)
		c := newTestClient(t, srv.URL)

		res, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "94", res.ResponseCode)
	})

	t.Run("response signature mismatch", func(t *testing.T) {
		srv, _ := refundServer(t, "00", true)
		c := newTestClient(t, srv.URL)

		res, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.False(t, res.Success)
	})

	t.Run("missing transaction date", func(t *testing.T) {
		c := newTestClient(t, "http://127.0.0.1:1")
		req := refundRequest()
		req.TxnRef = "OD123"
		_, err := c.Refund(context.Background(), req)
		assert.Error(t, err)
	})
}
