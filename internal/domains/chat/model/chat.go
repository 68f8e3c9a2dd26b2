package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SenderType string

const (
	SenderCustomer SenderType = "Customer"
	SenderAdmin    SenderType = "Admin"
)

type MessageType string

const (
	MessageText  MessageType = "Text"
	MessageImage MessageType = "Image"
	MessageAudio MessageType = "Audio"
	MessageVideo MessageType = "Video"
	MessageFile  MessageType = "File"
)

// MessageTypeFromMime: image/* audio/* video/*, còn lại là File
func MessageTypeFromMime(contentType string) MessageType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MessageImage
	case strings.HasPrefix(contentType, "audio/"):
		return MessageAudio
	case strings.HasPrefix(contentType, "video/"):
		return MessageVideo
	default:
		return MessageFile
	}
}

// Chatroom: mỗi customer có đúng một phòng chat với shop
type Chatroom struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID       string             `bson:"customer_id" json:"customer_id"`
	LastMessage      *Message           `bson:"last_message,omitempty" json:"last_message,omitempty"`
	UnseenByAdmin    int                `bson:"unseen_by_admin" json:"unseen_by_admin"`
	UnseenByCustomer int                `bson:"unseen_by_customer" json:"unseen_by_customer"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`

	RecentMessages []*Message `bson:"-" json:"chat_messages,omitempty"`
}

type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatroomID primitive.ObjectID `bson:"chatroom_id" json:"chatroom_id"`
	SenderType SenderType         `bson:"sender_type" json:"sender_type"`
	Type       MessageType        `bson:"type" json:"type"`
	Content    string             `bson:"content" json:"content"`
	Attachment string             `bson:"attachment,omitempty" json:"attachment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
