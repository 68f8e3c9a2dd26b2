package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-backend/internal/domains/chat/model"
)

const (
	chatroomCollection = "chatrooms"
	messageCollection  = "chat_messages"
)

type mongoChatRepository struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
}

func NewMongoChatRepository(db *mongo.Database) ChatRepository {
	return &mongoChatRepository{
		rooms:    db.Collection(chatroomCollection),
		messages: db.Collection(messageCollection),
	}
}

// EnsureIndexes: unique customer_id + index đọc message theo phòng
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(chatroomCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create chatroom indexes: %w", err)
	}

	_, err = db.Collection(messageCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chatroom_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

func (r *mongoChatRepository) findOne(ctx context.Context, filter bson.M) (*model.Chatroom, error) {
	var room model.Chatroom
	if err := r.rooms.FindOne(ctx, filter).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrChatroomNotFound
		}
		return nil, fmt.Errorf("failed to find chatroom: %w", err)
	}
	return &room, nil
}

func (r *mongoChatRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Chatroom, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoChatRepository) FindByCustomer(ctx context.Context, customerID string) (*model.Chatroom, error) {
	return r.findOne(ctx, bson.M{"customer_id": customerID})
}

func (r *mongoChatRepository) Create(ctx context.Context, room *model.Chatroom) error {
	now := time.Now()
	room.CreatedAt, room.UpdatedAt = now, now

	res, err := r.rooms.InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrChatroomExists
		}
		return fmt.Errorf("failed to create chatroom: %w", err)
	}
	room.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoChatRepository) GetOrCreateByCustomer(ctx context.Context, customerID string) (*model.Chatroom, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var room model.Chatroom
	err := r.rooms.FindOneAndUpdate(ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$setOnInsert": bson.M{
			"customer_id":        customerID,
			"unseen_by_admin":    0,
			"unseen_by_customer": 0,
			"created_at":         now,
			"updated_at":         now,
		}},
		opts,
	).Decode(&room)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert chatroom: %w", err)
	}
	return &room, nil
}

func (r *mongoChatRepository) List(ctx context.Context, limit, skip int) ([]*model.Chatroom, int64, error) {
	total, err := r.rooms.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count chatrooms: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.rooms.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chatrooms: %w", err)
	}
	defer cur.Close(ctx)

	rooms := []*model.Chatroom{}
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, 0, fmt.Errorf("failed to decode chatrooms: %w", err)
	}
	return rooms, total, nil
}

func (r *mongoChatRepository) InsertMessage(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	res, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)

	unseenField := "unseen_by_admin"
	if msg.SenderType == model.SenderAdmin {
		unseenField = "unseen_by_customer"
	}

	_, err = r.rooms.UpdateByID(ctx, msg.ChatroomID, bson.M{
		"$set": bson.M{"last_message": msg, "updated_at": msg.CreatedAt},
		"$inc": bson.M{unseenField: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to update chatroom: %w", err)
	}
	return nil
}

func (r *mongoChatRepository) ListMessages(ctx context.Context, chatroomID primitive.ObjectID, skip, take int) ([]*model.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(take))
	cur, err := r.messages.Find(ctx, bson.M{"chatroom_id": chatroomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cur.Close(ctx)

	messages := []*model.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (r *mongoChatRepository) MarkSeen(ctx context.Context, chatroomID primitive.ObjectID, reader model.SenderType) error {
	field := "unseen_by_customer"
	if reader == model.SenderAdmin {
		field = "unseen_by_admin"
	}

	res, err := r.rooms.UpdateByID(ctx, chatroomID, bson.M{"$set": bson.M{field: 0}})
	if err != nil {
		return fmt.Errorf("failed to mark seen: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrChatroomNotFound
	}
	return nil
}
