package model

import (
	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeInvalidInput = "RPT001"
	ErrCodeInternal     = "RPT500"
)

var ErrInvalidRange = apperr.New(apperr.KindBadRequest, ErrCodeInvalidInput, "From date must not be after to date", nil)

func NewReportError(code, message string, err error) *apperr.Error {
	kind := apperr.KindInternal
	if code == ErrCodeInvalidInput {
		kind = apperr.KindBadRequest
	}
	return apperr.New(kind, code, message, err)
}
