package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/voucher/model"
	"shop-backend/internal/domains/voucher/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

type VoucherHandler struct {
	service service.VoucherService
}

func NewVoucherHandler(service service.VoucherService) *VoucherHandler {
	return &VoucherHandler{service: service}
}

// ListAvailable - GET /vouchers (voucher user hiện tại dùng được)
func (h *VoucherHandler) ListAvailable(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	vouchers, err := h.service.ListAvailable(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", vouchers)
}

// ========================================
// ADMIN
// ========================================

func (h *VoucherHandler) List(c *gin.Context) {
	var req model.ListVouchersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	vouchers, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, vouchers, response.NewMeta(req.Page, req.Limit, total))
}

type voucherDetail struct {
	*model.Voucher
	Users []model.VoucherUser `json:"users,omitempty"`
}

func (h *VoucherHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	v, users, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", voucherDetail{Voucher: v, Users: users})
}

// CreateGeneral - POST /admin/vouchers/general
func (h *VoucherHandler) CreateGeneral(c *gin.Context) {
	var req model.CreateGeneralVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	v, err := h.service.CreateGeneral(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Create voucher successfully", v)
}

// CreatePersonal - POST /admin/vouchers/personal
func (h *VoucherHandler) CreatePersonal(c *gin.Context) {
	var req model.CreatePersonalVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	v, err := h.service.CreatePersonal(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Create voucher successfully", v)
}

func (h *VoucherHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Delete voucher successfully", nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
