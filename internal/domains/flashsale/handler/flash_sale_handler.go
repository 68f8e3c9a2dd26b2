package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/flashsale/model"
	"shop-backend/internal/domains/flashsale/service"
	"shop-backend/internal/shared/response"
)

type FlashSaleHandler struct {
	flashSaleService service.FlashSaleService
}

func NewFlashSaleHandler(flashSaleService service.FlashSaleService) *FlashSaleHandler {
	return &FlashSaleHandler{flashSaleService: flashSaleService}
}

// ListActive - GET /flash-sales (đang diễn ra)
func (h *FlashSaleHandler) ListActive(c *gin.Context) {
	items, err := h.flashSaleService.ListActive(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", items)
}

// ========================================
// ADMIN
// ========================================

// Create - POST /admin/flash-sales
func (h *FlashSaleHandler) Create(c *gin.Context) {
	var req model.CreateFlashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	fs, err := h.flashSaleService.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Create flashsale successfully", fs)
}

// List - GET /admin/flash-sales?product_id=&page=&limit=
func (h *FlashSaleHandler) List(c *gin.Context) {
	var req model.ListFlashSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	items, total, err := h.flashSaleService.List(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(req.Page, req.Limit, total))
}

// Get - GET /admin/flash-sales/:id
func (h *FlashSaleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fs, err := h.flashSaleService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", fs)
}

// Delete - DELETE /admin/flash-sales/:id
func (h *FlashSaleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.flashSaleService.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("Delete flashsale #%s successfully", id), nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid flash sale id")
		return uuid.Nil, false
	}
	return id, true
}
