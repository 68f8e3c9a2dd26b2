package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/product/model"
	"shop-backend/internal/domains/product/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

const maxUploadSize = 10 << 20

type ProductHandler struct {
	productService service.ProductService
	importService  service.ImportService
}

func NewProductHandler(productService service.ProductService, importService service.ImportService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		importService:  importService,
	}
}

// ========================================
// PUBLIC
// ========================================

// ListProducts - GET /products?keyword=&page=&limit=&sort_by=&order=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	h.list(c, false)
}

// AdminListProducts - GET /admin/products (kể cả inactive)
func (h *ProductHandler) AdminListProducts(c *gin.Context) {
	h.list(c, true)
}

func (h *ProductHandler) list(c *gin.Context, includeInactive bool) {
	var req model.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.IncludeInactive = includeInactive
	req.Normalize()

	products, total, err := h.productService.List(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, products, response.NewMeta(req.Page, req.Limit, total))
}

// GetProduct - GET /products/:id (id hoặc slug)
func (h *ProductHandler) GetProduct(c *gin.Context) {
	param := c.Param("id")

	var (
		p   *model.Product
		err error
	)
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		p, err = h.productService.GetByID(c.Request.Context(), id)
	} else {
		p, err = h.productService.GetBySlug(c.Request.Context(), param)
	}
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", p)
}

// ========================================
// ADMIN
// ========================================

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	p, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.Header("Location", "/api/v1/products/"+p.ID.String())
	response.Success(c, http.StatusCreated, "Create product successfully", p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	p, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Update product successfully", p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Delete product successfully", nil)
}

// AddImages - POST /admin/products/:id/images (multipart, field "images")
func (h *ProductHandler) AddImages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "images are required (multipart/form-data)")
		return
	}

	files := [][]byte{}
	for _, fh := range form.File["images"] {
		if fh.Size > maxUploadSize {
			response.Error(c, http.StatusBadRequest, "File too large", fh.Filename)
			return
		}
		src, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Cannot read file", fh.Filename)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Cannot read file", fh.Filename)
			return
		}
		files = append(files, data)
	}

	p, err := h.productService.AddImages(c.Request.Context(), id, files)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Add product images successfully", p)
}

type removeImageRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *ProductHandler) RemoveImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req removeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	p, err := h.productService.RemoveImage(c.Request.Context(), id, req.URL)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Remove product image successfully", p)
}

// Restock - POST /admin/products/:id/imports
func (h *ProductHandler) Restock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	p, err := h.productService.Restock(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Import product successfully", p)
}

// ========================================
// EXCEL IMPORT
// ========================================

// ImportTemplate - GET /admin/products/import-form?product_ids=..&product_ids=..
func (h *ProductHandler) ImportTemplate(c *gin.Context) {
	var req model.ImportTemplateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid product id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	f, err := h.importService.Template(c.Request.Context(), ids)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="form-import-products.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		response.InternalServerError(c, "Failed to write template")
	}
}

// ImportProducts - POST /admin/products/imports (multipart, field "file")
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "file is required (multipart/form-data)")
		return
	}
	if fh.Size > maxUploadSize {
		response.BadRequest(c, fmt.Sprintf("File exceeds %dMB", maxUploadSize>>20))
		return
	}

	src, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.BadRequest(c, "Cannot read file")
		return
	}

	imp, err := h.importService.Upload(c.Request.Context(), fh.Filename, data, userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted,
		"The form to import products is being processed, check the import status for the result", imp)
}

func (h *ProductHandler) GetImport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	imp, err := h.importService.GetImport(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", imp)
}

func (h *ProductHandler) ListImports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	imports, total, err := h.importService.ListImports(c.Request.Context(), page, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, imports, response.NewMeta(page, limit, total))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
