package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-backend/internal/domains/payment/service"
)

type PaymentHandler struct {
	callbackService service.CallbackService
}

func NewPaymentHandler(callbackService service.CallbackService) *PaymentHandler {
	return &PaymentHandler{callbackService: callbackService}
}

// VNPayReturn - GET /orders/vnpay_return
// Frontend forward nguyên query VNPay redirect về
func (h *PaymentHandler) VNPayReturn(c *gin.Context) {
	resp := h.callbackService.HandleReturn(c.Request.Context(), c.Request.URL.Query())
	c.JSON(http.StatusOK, resp)
}

// VNPayIPN - GET /orders/vnpay_ipn
// VNPay yêu cầu luôn trả 200 với {RspCode, Message}
func (h *PaymentHandler) VNPayIPN(c *gin.Context) {
	resp := h.callbackService.HandleIPN(c.Request.Context(), c.Request.URL.Query())
	c.JSON(http.StatusOK, resp)
}
