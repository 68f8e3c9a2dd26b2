package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-backend/internal/domains/user/model"
	"shop-backend/internal/domains/user/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

const refreshCookieName = "refresh_token"

// UserHandler xử lý HTTP requests cho user domain
type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register xử lý POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/me")
	response.Success(c, http.StatusCreated, "User registered successfully", u)
}

// Login xử lý POST /auth/login. Refresh token nằm trong httpOnly cookie
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.SetCookie(refreshCookieName, res.RefreshToken, 7*24*3600, "/", "", true, true)
	res.RefreshToken = ""

	response.Success(c, http.StatusOK, "Login successful", res)
}

// RefreshToken xử lý POST /auth/refresh
func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		response.Unauthorized(c, "Missing refresh token")
		return
	}

	res, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.SetCookie(refreshCookieName, res.RefreshToken, 7*24*3600, "/", "", true, true)
	res.RefreshToken = ""

	response.Success(c, http.StatusOK, "Token refreshed", res)
}

// Logout xoá refresh cookie
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}

// ========================================
// PROFILE
// ========================================

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	u, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", u)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", u)
}

// ListUsers xử lý GET /admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req model.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	users, total, err := h.service.ListUsers(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, response.NewMeta(req.Page, req.Limit, total))
}
