package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeEmailExists        = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeInvalidInput       = "USR004"
	ErrCodeInternal           = "USR500"
)

// Repository sentinel errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeUserNotFound:       apperr.KindNotFound,
	ErrCodeEmailExists:        apperr.KindConflict,
	ErrCodeInvalidCredentials: apperr.KindUnauthorized,
	ErrCodeInvalidInput:       apperr.KindBadRequest,
	ErrCodeInternal:           apperr.KindInternal,
}

func NewUserError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
