package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	// General: gửi cho mọi user (user_id NULL)
	NotificationTypeGeneral  NotificationType = "General"
	NotificationTypeSpecific NotificationType = "Specific"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    *uuid.UUID       `json:"user_id,omitempty"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Link      string           `json:"link"`
	CreatedAt time.Time        `json:"created_at"`

	// theo user đang xem
	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
