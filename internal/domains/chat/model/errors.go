package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeChatroomNotFound = "CHT001"
	ErrCodeChatroomExists   = "CHT002"
	ErrCodeCustomerNotExist = "CHT003"
	ErrCodeInvalidInput     = "CHT004"
	ErrCodeFileTooLarge     = "CHT005"
	ErrCodeInternal         = "CHT500"
)

var (
	ErrChatroomNotFound = errors.New("chatroom not found")
	ErrChatroomExists   = errors.New("chatroom already exists")
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeChatroomNotFound: apperr.KindNotFound,
	ErrCodeChatroomExists:   apperr.KindBadRequest,
	ErrCodeCustomerNotExist: apperr.KindBadRequest,
	ErrCodeInvalidInput:     apperr.KindBadRequest,
	ErrCodeFileTooLarge:     apperr.KindBadRequest,
	ErrCodeInternal:         apperr.KindInternal,
}

func NewChatError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
