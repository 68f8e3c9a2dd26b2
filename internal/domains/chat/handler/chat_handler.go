package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-backend/internal/domains/chat/model"
	"shop-backend/internal/domains/chat/service"
	"shop-backend/internal/shared/middleware"
	"shop-backend/internal/shared/response"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ========================================
// CUSTOMER
// ========================================

// GetMyChatroom - GET /chats
func (h *ChatHandler) GetMyChatroom(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	room, err := h.chatService.GetMyChatroom(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", room)
}

// ListMyMessages - GET /chats/recent-messages?skip=&take=
func (h *ChatHandler) ListMyMessages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.RecentMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	messages, err := h.chatService.ListMyMessages(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", messages)
}

// SendText - POST /chats/send/text-message
func (h *ChatHandler) SendText(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.TextMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	msg, err := h.chatService.CustomerSendText(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Send message successfully", msg)
}

// SendFile - POST /chats/send/file-message (multipart, field "file")
func (h *ChatHandler) SendFile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	file, ok := readFile(c)
	if !ok {
		return
	}

	msg, err := h.chatService.CustomerSendFile(c.Request.Context(), userID, file)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Send message successfully", msg)
}

// MarkSeen - PATCH /chats/seen
func (h *ChatHandler) MarkSeen(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if err := h.chatService.CustomerMarkSeen(c.Request.Context(), userID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", nil)
}

// ========================================
// ADMIN
// ========================================

// AdminListChatrooms - GET /admin/chats
func (h *ChatHandler) AdminListChatrooms(c *gin.Context) {
	var req model.ListChatroomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	req.Normalize()

	rooms, total, err := h.chatService.ListChatrooms(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, rooms, response.NewMeta(req.Page, req.Limit, total))
}

// AdminGetChatroom - GET /admin/chats/:chatroomId
func (h *ChatHandler) AdminGetChatroom(c *gin.Context) {
	room, err := h.chatService.GetChatroom(c.Request.Context(), c.Param("chatroomId"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", room)
}

// AdminListMessages - GET /admin/chats/:chatroomId/recent-messages
func (h *ChatHandler) AdminListMessages(c *gin.Context) {
	var req model.RecentMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), c.Param("chatroomId"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", messages)
}

// AdminCreateConversation - POST /admin/chats/customer/:customerId
func (h *ChatHandler) AdminCreateConversation(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	room, err := h.chatService.CreateConversation(c.Request.Context(), customerID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Create chatroom successfully", room)
}

// AdminSendText - POST /admin/chats/:chatroomId/send/text-message
func (h *ChatHandler) AdminSendText(c *gin.Context) {
	var req model.TextMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	msg, err := h.chatService.AdminSendText(c.Request.Context(), c.Param("chatroomId"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Send message successfully", msg)
}

// AdminSendFile - POST /admin/chats/:chatroomId/send/file-message
func (h *ChatHandler) AdminSendFile(c *gin.Context) {
	file, ok := readFile(c)
	if !ok {
		return
	}

	msg, err := h.chatService.AdminSendFile(c.Request.Context(), c.Param("chatroomId"), file)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Send message successfully", msg)
}

// AdminMarkSeen - PATCH /admin/chats/:chatroomId/seen
func (h *ChatHandler) AdminMarkSeen(c *gin.Context) {
	if err := h.chatService.AdminMarkSeen(c.Request.Context(), c.Param("chatroomId")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Success", nil)
}

func readFile(c *gin.Context) (model.FileMessage, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "file is required (multipart/form-data)")
		return model.FileMessage{}, false
	}
	if fh.Size > service.MaxFileSize {
		response.BadRequest(c, fmt.Sprintf("File exceeds %dMB", service.MaxFileSize>>20))
		return model.FileMessage{}, false
	}

	src, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read file")
		return model.FileMessage{}, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.BadRequest(c, "Cannot read file")
		return model.FileMessage{}, false
	}

	return model.FileMessage{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
