package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ListNotificationsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListNotificationsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

func (r *ListNotificationsRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// BroadcastRequest - admin gửi thông báo chung
type BroadcastRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
}

func (r BroadcastRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Link, validation.Length(0, 500)),
	)
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
