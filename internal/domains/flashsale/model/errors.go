package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeFlashSaleNotFound = "FLS001"
	ErrCodeInvalidInput      = "FLS002"
	ErrCodeInvalidTime       = "FLS003"
	ErrCodeOverlap           = "FLS004"
	ErrCodeInvalidPrice      = "FLS005"
	ErrCodeNotEnoughStock    = "FLS006"
	ErrCodeProductNotFound   = "FLS007"
	ErrCodeInternal          = "FLS500"
)

var (
	ErrFlashSaleNotFound = errors.New("flash sale not found")
	ErrProductNotFound   = errors.New("product not found")
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeFlashSaleNotFound: apperr.KindNotFound,
	ErrCodeInvalidInput:      apperr.KindBadRequest,
	ErrCodeInvalidTime:       apperr.KindBadRequest,
	ErrCodeOverlap:           apperr.KindBadRequest,
	ErrCodeInvalidPrice:      apperr.KindBadRequest,
	ErrCodeNotEnoughStock:    apperr.KindBadRequest,
	ErrCodeProductNotFound:   apperr.KindBadRequest,
	ErrCodeInternal:          apperr.KindInternal,
}

func NewFlashSaleError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
