package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-backend/internal/domains/report/model"
	"shop-backend/internal/domains/report/service"
	"shop-backend/internal/shared/response"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Revenue - GET /admin/reports/revenue?from=&to=
func (h *ReportHandler) Revenue(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	report, err := h.reportService.Revenue(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", report)
}

// TopProducts - GET /admin/reports/top-products?from=&to=&limit=
func (h *ReportHandler) TopProducts(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	products, err := h.reportService.TopProducts(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", products)
}
