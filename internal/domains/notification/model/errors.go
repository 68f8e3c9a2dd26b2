package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeNotificationNotFound = "NTF001"
	ErrCodeInvalidInput         = "NTF002"
	ErrCodeInternal             = "NTF500"
)

var ErrNotificationNotFound = errors.New("notification not found")

var codeKinds = map[string]apperr.Kind{
	ErrCodeNotificationNotFound: apperr.KindNotFound,
	ErrCodeInvalidInput:         apperr.KindBadRequest,
	ErrCodeInternal:             apperr.KindInternal,
}

func NewNotificationError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
