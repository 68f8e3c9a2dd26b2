package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type TextMessageRequest struct {
	Content string `json:"content"`
}

func (r TextMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 5000)),
	)
}

// FileMessage: file upload đã đọc vào bộ nhớ bởi handler
type FileMessage struct {
	FileName    string
	ContentType string
	Data        []byte
}

type RecentMessagesRequest struct {
	Skip int `form:"skip"`
	Take int `form:"take"`
}

func (r *RecentMessagesRequest) Normalize() {
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Take < 1 || r.Take > 100 {
		r.Take = 10
	}
}

type ListChatroomsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListChatroomsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

func (r *ListChatroomsRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}
