package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-backend/internal/domains/chat/model"
	"shop-backend/internal/domains/chat/repository"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
	"shop-backend/pkg/logger"
)

const MaxFileSize = 100 << 20

// FileUploader: MinIOStorage đáp ứng interface này
type FileUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type ChatService interface {
	// Customer
	GetMyChatroom(ctx context.Context, customerID uuid.UUID) (*model.Chatroom, error)
	ListMyMessages(ctx context.Context, customerID uuid.UUID, req model.RecentMessagesRequest) ([]*model.Message, error)
	CustomerSendText(ctx context.Context, customerID uuid.UUID, req model.TextMessageRequest) (*model.Message, error)
	CustomerSendFile(ctx context.Context, customerID uuid.UUID, file model.FileMessage) (*model.Message, error)
	CustomerMarkSeen(ctx context.Context, customerID uuid.UUID) error

	// Admin
	ListChatrooms(ctx context.Context, req model.ListChatroomsRequest) ([]*model.Chatroom, int64, error)
	GetChatroom(ctx context.Context, chatroomID string) (*model.Chatroom, error)
	ListMessages(ctx context.Context, chatroomID string, req model.RecentMessagesRequest) ([]*model.Message, error)
	CreateConversation(ctx context.Context, customerID uuid.UUID) (*model.Chatroom, error)
	AdminSendText(ctx context.Context, chatroomID string, req model.TextMessageRequest) (*model.Message, error)
	AdminSendFile(ctx context.Context, chatroomID string, file model.FileMessage) (*model.Message, error)
	AdminMarkSeen(ctx context.Context, chatroomID string) error
}

type chatService struct {
	repo     repository.ChatRepository
	storage  FileUploader
	users    shared.UserDirectory
	notifier shared.Notifier
}

func NewChatService(repo repository.ChatRepository, storage FileUploader, users shared.UserDirectory, notifier shared.Notifier) ChatService {
	return &chatService{repo: repo, storage: storage, users: users, notifier: notifier}
}

// số message trả kèm khi xem một phòng
const recentMessageCount = 10

// =====================================================
// CUSTOMER
// =====================================================

func (s *chatService) GetMyChatroom(ctx context.Context, customerID uuid.UUID) (*model.Chatroom, error) {
	room, err := s.findCustomerRoom(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.withRecentMessages(ctx, room)
}

func (s *chatService) ListMyMessages(ctx context.Context, customerID uuid.UUID, req model.RecentMessagesRequest) ([]*model.Message, error) {
	room, err := s.findCustomerRoom(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.listMessages(ctx, room.ID, req)
}

func (s *chatService) CustomerSendText(ctx context.Context, customerID uuid.UUID, req model.TextMessageRequest) (*model.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewChatError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	room, err := s.repo.GetOrCreateByCustomer(ctx, customerID.String())
	if err != nil {
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to send message", err)
	}
	return s.send(ctx, &model.Message{
		ChatroomID: room.ID,
		SenderType: model.SenderCustomer,
		Type:       model.MessageText,
		Content:    req.Content,
	})
}

func (s *chatService) CustomerSendFile(ctx context.Context, customerID uuid.UUID, file model.FileMessage) (*model.Message, error) {
	if err := validateFile(file); err != nil {
		return nil, err
	}

	room, err := s.repo.GetOrCreateByCustomer(ctx, customerID.String())
	if err != nil {
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to send message", err)
	}
	return s.sendFile(ctx, room, model.SenderCustomer, file)
}

func (s *chatService) CustomerMarkSeen(ctx context.Context, customerID uuid.UUID) error {
	room, err := s.findCustomerRoom(ctx, customerID)
	if err != nil {
		return err
	}
	return s.markSeen(ctx, room.ID, model.SenderCustomer)
}

// =====================================================
// ADMIN
// =====================================================

func (s *chatService) ListChatrooms(ctx context.Context, req model.ListChatroomsRequest) ([]*model.Chatroom, int64, error) {
	req.Normalize()
	rooms, total, err := s.repo.List(ctx, req.Limit, req.Offset())
	if err != nil {
		return nil, 0, model.NewChatError(model.ErrCodeInternal, "Failed to list chatrooms", err)
	}
	return rooms, total, nil
}

func (s *chatService) GetChatroom(ctx context.Context, chatroomID string) (*model.Chatroom, error) {
	room, err := s.findRoom(ctx, chatroomID)
	if err != nil {
		return nil, err
	}
	return s.withRecentMessages(ctx, room)
}

func (s *chatService) ListMessages(ctx context.Context, chatroomID string, req model.RecentMessagesRequest) ([]*model.Message, error) {
	room, err := s.findRoom(ctx, chatroomID)
	if err != nil {
		return nil, err
	}
	return s.listMessages(ctx, room.ID, req)
}

func (s *chatService) CreateConversation(ctx context.Context, customerID uuid.UUID) (*model.Chatroom, error) {
	if _, err := s.users.GetBasicInfo(ctx, customerID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, model.NewChatError(model.ErrCodeCustomerNotExist, "Customer does not exist", err)
		}
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to create chatroom", err)
	}

	room := &model.Chatroom{CustomerID: customerID.String()}
	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, model.ErrChatroomExists) {
			return nil, model.NewChatError(model.ErrCodeChatroomExists,
				fmt.Sprintf("Chatroom with customer #%s already exists", customerID), err)
		}
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to create chatroom", err)
	}
	return room, nil
}

func (s *chatService) AdminSendText(ctx context.Context, chatroomID string, req model.TextMessageRequest) (*model.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewChatError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	room, err := s.findRoom(ctx, chatroomID)
	if err != nil {
		return nil, err
	}
	msg, err := s.send(ctx, &model.Message{
		ChatroomID: room.ID,
		SenderType: model.SenderAdmin,
		Type:       model.MessageText,
		Content:    req.Content,
	})
	if err != nil {
		return nil, err
	}
	s.notifyCustomer(ctx, room)
	return msg, nil
}

func (s *chatService) AdminSendFile(ctx context.Context, chatroomID string, file model.FileMessage) (*model.Message, error) {
	if err := validateFile(file); err != nil {
		return nil, err
	}

	room, err := s.findRoom(ctx, chatroomID)
	if err != nil {
		return nil, err
	}
	msg, err := s.sendFile(ctx, room, model.SenderAdmin, file)
	if err != nil {
		return nil, err
	}
	s.notifyCustomer(ctx, room)
	return msg, nil
}

func (s *chatService) AdminMarkSeen(ctx context.Context, chatroomID string) error {
	room, err := s.findRoom(ctx, chatroomID)
	if err != nil {
		return err
	}
	return s.markSeen(ctx, room.ID, model.SenderAdmin)
}

// =====================================================
// HELPERS
// =====================================================

func validateFile(file model.FileMessage) error {
	if len(file.Data) == 0 {
		return model.NewChatError(model.ErrCodeInvalidInput, "File is required", nil)
	}
	if len(file.Data) > MaxFileSize {
		return model.NewChatError(model.ErrCodeFileTooLarge, "File exceeds 100MB", nil)
	}
	return nil
}

func (s *chatService) findRoom(ctx context.Context, chatroomID string) (*model.Chatroom, error) {
	id, err := primitive.ObjectIDFromHex(chatroomID)
	if err != nil {
		return nil, model.NewChatError(model.ErrCodeChatroomNotFound, "No chatroom found", err)
	}
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(err)
	}
	return room, nil
}

func (s *chatService) findCustomerRoom(ctx context.Context, customerID uuid.UUID) (*model.Chatroom, error) {
	room, err := s.repo.FindByCustomer(ctx, customerID.String())
	if err != nil {
		if errors.Is(err, model.ErrChatroomNotFound) {
			return nil, model.NewChatError(model.ErrCodeChatroomNotFound, "Customers do have not a chat room with Admin", err)
		}
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to get chatroom", err)
	}
	return room, nil
}

func (s *chatService) mapFindError(err error) error {
	if errors.Is(err, model.ErrChatroomNotFound) {
		return model.NewChatError(model.ErrCodeChatroomNotFound, "No chatroom found", err)
	}
	return model.NewChatError(model.ErrCodeInternal, "Failed to get chatroom", err)
}

func (s *chatService) withRecentMessages(ctx context.Context, room *model.Chatroom) (*model.Chatroom, error) {
	messages, err := s.repo.ListMessages(ctx, room.ID, 0, recentMessageCount)
	if err != nil {
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to get messages", err)
	}
	room.RecentMessages = messages
	return room, nil
}

func (s *chatService) listMessages(ctx context.Context, roomID primitive.ObjectID, req model.RecentMessagesRequest) ([]*model.Message, error) {
	req.Normalize()
	messages, err := s.repo.ListMessages(ctx, roomID, req.Skip, req.Take)
	if err != nil {
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to get messages", err)
	}
	return messages, nil
}

func (s *chatService) send(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to send message", err)
	}
	return msg, nil
}

// sendFile upload lên storage (chats/<room>/<uuid><ext>), content là tên file gốc
func (s *chatService) sendFile(ctx context.Context, room *model.Chatroom, sender model.SenderType, file model.FileMessage) (*model.Message, error) {
	key := fmt.Sprintf("chats/%s/%s%s", room.ID.Hex(), uuid.New(), path.Ext(file.FileName))
	url, err := s.storage.Upload(ctx, key, file.Data, file.ContentType)
	if err != nil {
		return nil, model.NewChatError(model.ErrCodeInternal, "Failed to upload file", err)
	}

	return s.send(ctx, &model.Message{
		ChatroomID: room.ID,
		SenderType: sender,
		Type:       model.MessageTypeFromMime(file.ContentType),
		Content:    file.FileName,
		Attachment: url,
	})
}

func (s *chatService) markSeen(ctx context.Context, roomID primitive.ObjectID, reader model.SenderType) error {
	if err := s.repo.MarkSeen(ctx, roomID, reader); err != nil {
		return s.mapFindError(err)
	}
	return nil
}

func (s *chatService) notifyCustomer(ctx context.Context, room *model.Chatroom) {
	customerID, err := uuid.Parse(room.CustomerID)
	if err != nil {
		return
	}
	if err := s.notifier.NotifyUser(ctx, customerID, "Tin nhắn mới từ shop", "Shop đã trả lời tin nhắn của bạn", "/chats"); err != nil {
		logger.ErrorWithFields("Failed to notify chat reply", err, map[string]interface{}{
			"chatroom_id": room.ID.Hex(),
		})
	}
}
