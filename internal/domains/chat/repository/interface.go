package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-backend/internal/domains/chat/model"
)

type ChatRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Chatroom, error)
	FindByCustomer(ctx context.Context, customerID string) (*model.Chatroom, error)
	// Create trả về ErrChatroomExists nếu customer đã có phòng
	Create(ctx context.Context, room *model.Chatroom) error
	GetOrCreateByCustomer(ctx context.Context, customerID string) (*model.Chatroom, error)
	List(ctx context.Context, limit, skip int) ([]*model.Chatroom, int64, error)

	// InsertMessage lưu message và cập nhật last_message + bộ đếm chưa xem của phía còn lại
	InsertMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, chatroomID primitive.ObjectID, skip, take int) ([]*model.Message, error)
	MarkSeen(ctx context.Context, chatroomID primitive.ObjectID, reader model.SenderType) error
}
