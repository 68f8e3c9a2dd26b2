package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound      = "ORD001"
	ErrCodeInvalidInput       = "ORD002"
	ErrCodeDuplicateProducts  = "ORD003"
	ErrCodeInsufficientStock  = "ORD004"
	ErrCodeVoucherInvalid     = "ORD005"
	ErrCodeMinOrderPrice      = "ORD006"
	ErrCodeInvalidStatus      = "ORD007"
	ErrCodeNotPaidOnline      = "ORD008"
	ErrCodeCannotCancel       = "ORD009"
	ErrCodeProductNotFound    = "ORD010"
	ErrCodeRatingNotAllowed   = "ORD011"
	ErrCodePaymentUnavailable = "ORD012"
	ErrCodeInternal           = "ORD500"
)

// =====================================================
// SENTINEL ERRORS (repository)
// =====================================================
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrStatusChanged: UPDATE có điều kiện status không match dòng nào
	ErrStatusChanged = errors.New("order status changed concurrently")
	// ErrVoucherUnavailable: voucher hết lượt hoặc user đã dùng (race giữa validate và redeem)
	ErrVoucherUnavailable = errors.New("voucher no longer available")
	ErrDetailNotRatable   = errors.New("order detail not ratable")
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeOrderNotFound:      apperr.KindNotFound,
	ErrCodeInvalidInput:       apperr.KindBadRequest,
	ErrCodeDuplicateProducts:  apperr.KindBadRequest,
	ErrCodeInsufficientStock:  apperr.KindConflict,
	ErrCodeVoucherInvalid:     apperr.KindBadRequest,
	ErrCodeMinOrderPrice:      apperr.KindBadRequest,
	ErrCodeInvalidStatus:      apperr.KindBadRequest,
	ErrCodeNotPaidOnline:      apperr.KindBadRequest,
	ErrCodeCannotCancel:       apperr.KindBadRequest,
	ErrCodeProductNotFound:    apperr.KindNotFound,
	ErrCodeRatingNotAllowed:   apperr.KindNotFound,
	ErrCodePaymentUnavailable: apperr.KindInternal,
	ErrCodeInternal:           apperr.KindInternal,
}

func NewOrderError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
