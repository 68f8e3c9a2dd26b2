package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/cart/model"
	"shop-backend/internal/domains/cart/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart - GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", cart)
}

// AddItem - POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Add to cart successfully", cart)
}

// UpdateItem - PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Update cart successfully", cart)
}

// RemoveItem - DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Remove product from cart successfully", nil)
}

// Clear - DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Clear cart successfully", nil)
}

func parseProductID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return uuid.Nil, false
	}
	return id, true
}
