package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/notification/model"
	"shop-backend/internal/domains/notification/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List - GET /notifications?page=&limit=
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	items, total, err := h.notificationService.List(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(req.Page, req.Limit, total))
}

// UnreadCount - GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", model.UnreadCountResponse{Unread: count})
}

// MarkRead - PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid notification id")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Read notification successfully", nil)
}

// MarkAllRead - PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Read all notifications successfully", nil)
}

// Broadcast - POST /admin/notifications
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req model.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	n, err := h.notificationService.SendBroadcast(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Send notification successfully", n)
}
