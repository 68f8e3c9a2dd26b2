package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/domains/payment/model"
)

type mockCallbackService struct {
	mock.Mock
}

func (m *mockCallbackService) HandleReturn(ctx context.Context, values url.Values) model.CallbackResponse {
	args := m.Called(ctx, values)
	return args.Get(0).(model.CallbackResponse)
}

func (m *mockCallbackService) HandleIPN(ctx context.Context, values url.Values) model.CallbackResponse {
	args := m.Called(ctx, values)
	return args.Get(0).(model.CallbackResponse)
}

func newPaymentRouter(svc *mockCallbackService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPaymentHandler(svc)
	r.GET("/orders/vnpay_return", h.VNPayReturn)
	r.GET("/orders/vnpay_ipn", h.VNPayIPN)
	return r
}

func TestVNPayIPN_AlwaysOKWithRspCode(t *testing.T) {
	svc := new(mockCallbackService)
	svc.On("HandleIPN", mock.Anything, mock.MatchedBy(func(v url.Values) bool {
		return v.Get("vnp_TxnRef") == "OD123" && v.Get("vnp_SecureHash") == "bad"
	})).Return(model.CallbackResponse{RspCode: "97", Message: "Fail checksum"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/vnpay_ipn?vnp_TxnRef=OD123&vnp_SecureHash=bad", nil)
	newPaymentRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "97", body["RspCode"])
	assert.Equal(t, "Fail checksum", body["Message"])
	svc.AssertExpectations(t)
}

func TestVNPayReturn_ForwardsQuery(t *testing.T) {
	svc := new(mockCallbackService)
	svc.On("HandleReturn", mock.Anything, mock.AnythingOfType("url.Values")).
		Return(model.CallbackResponse{RspCode: "00", Message: "Payment success"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/vnpay_return?vnp_ResponseCode=00", nil)
	newPaymentRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"RspCode":"00","Message":"Payment success"}`, w.Body.String())
	svc.AssertNotCalled(t, "HandleIPN", mock.Anything, mock.Anything)
}
