package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeVoucherNotFound = "VCH001"
	ErrCodeVoucherInvalid  = "VCH002"
	ErrCodeCodeExists      = "VCH003"
	ErrCodePercentTooLarge = "VCH004"
	ErrCodeUserNotExist    = "VCH005"
	ErrCodeInvalidInput    = "VCH006"
	ErrCodeMinOrderPrice   = "VCH007"
	ErrCodeInternal        = "VCH500"
)

var (
	ErrVoucherNotFound   = errors.New("voucher not found")
	ErrVoucherCodeExists = errors.New("voucher code already exists")
	ErrUserNotExist      = errors.New("some user does not exist")
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeVoucherNotFound: apperr.KindNotFound,
	ErrCodeVoucherInvalid:  apperr.KindBadRequest,
	ErrCodeCodeExists:      apperr.KindBadRequest,
	ErrCodePercentTooLarge: apperr.KindBadRequest,
	ErrCodeUserNotExist:    apperr.KindBadRequest,
	ErrCodeInvalidInput:    apperr.KindBadRequest,
	ErrCodeMinOrderPrice:   apperr.KindBadRequest,
	ErrCodeInternal:        apperr.KindInternal,
}

func NewVoucherError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}

// Message dùng chung với order service
const (
	MsgVoucherInvalid = "Voucher is not valid"
	MsgMinOrderPrice  = "Order does not meet the minimum value of the voucher"
)
