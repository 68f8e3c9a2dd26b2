package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/order/model"
	"shop-backend/internal/domains/order/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ========================================
// USER
// ========================================

// CreateOrder - POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Order successfully", order)
}

// PayOnline - POST /orders/:id/payment-online (trả về URL redirect VNPay)
func (h *OrderHandler) PayOnline(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.orderService.PayOnline(ctx, userID, orderID, middleware.GetClientIPFromContext(ctx))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", res)
}

// ListMyOrders - GET /orders?status=&page=&limit=
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	orders, total, err := h.orderService.ListMyOrders(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, orders, response.NewMeta(req.Page, req.Limit, total))
}

func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetMyOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", order)
}

// CancelMyOrder - PATCH /orders/:id/cancel
func (h *OrderHandler) CancelMyOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.orderService.CancelMyOrder(ctx, userID, orderID, middleware.GetClientIPFromContext(ctx))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Message, res)
}

// RateOrderDetail - POST /orders/:id/rating
func (h *OrderHandler) RateOrderDetail(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req model.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.orderService.RateOrderDetail(c.Request.Context(), userID, orderID, req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Review product successfully", nil)
}

// ========================================
// ADMIN
// ========================================

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, orders, response.NewMeta(req.Page, req.Limit, total))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", order)
}

// Confirm - PATCH /admin/orders/:id/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm)
}

// Ship - PATCH /admin/orders/:id/shipping
func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.orderService.Ship)
}

// Complete - PATCH /admin/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orderService.Complete)
}

// Unclaim - PATCH /admin/orders/:id/unclaimed
func (h *OrderHandler) Unclaim(c *gin.Context) {
	h.transition(c, h.orderService.Unclaim)
}

type transitionFunc func(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

func (h *OrderHandler) transition(c *gin.Context, fn transitionFunc) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), orderID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("Update order #%s to %s successfully", order.Code, order.Status), order)
}

// AdminCancel - PATCH /admin/orders/:id/cancel {reason}
func (h *OrderHandler) AdminCancel(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req model.AdminCancelRequest
	// body rỗng vẫn hợp lệ
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	res, err := h.orderService.AdminCancel(ctx, adminID, orderID, req, middleware.GetClientIPFromContext(ctx))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Message, res)
}

// ExportOrders - GET /admin/orders/export?from=2026-01-01&to=2026-01-31&status=
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	var req model.ExportOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	data, err := h.orderService.ExportOrders(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("orders_%s_%s.xlsx", req.From.Format("20060102"), req.To.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return uuid.Nil, false
	}
	return id, true
}
