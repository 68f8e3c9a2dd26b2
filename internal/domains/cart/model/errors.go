package model

import (
	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeProductNotFound = "CRT001"
	ErrCodeNotEnoughStock  = "CRT002"
	ErrCodeItemNotFound    = "CRT003"
	ErrCodeInvalidInput    = "CRT004"
	ErrCodeInternal        = "CRT500"
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeProductNotFound: apperr.KindNotFound,
	ErrCodeNotEnoughStock:  apperr.KindBadRequest,
	ErrCodeItemNotFound:    apperr.KindNotFound,
	ErrCodeInvalidInput:    apperr.KindBadRequest,
	ErrCodeInternal:        apperr.KindInternal,
}

func NewCartError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
