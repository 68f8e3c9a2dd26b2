package model

import (
	"errors"

	"shop-backend/internal/shared/apperr"
)

const (
	ErrCodeProductNotFound = "PRD001"
	ErrCodeCodeExists      = "PRD002"
	ErrCodeInvalidInput    = "PRD003"
	ErrCodeInvalidImage    = "PRD004"
	ErrCodeInvalidImport   = "PRD005"
	ErrCodeImportNotFound  = "PRD006"
	ErrCodeInternal        = "PRD500"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductExists      = errors.New("product code or slug already exists")
	ErrProductInFlashSale = errors.New("product is in a flash sale")
	ErrImportNotFound     = errors.New("product import not found")
)

var codeKinds = map[string]apperr.Kind{
	ErrCodeProductNotFound: apperr.KindNotFound,
	ErrCodeCodeExists:      apperr.KindConflict,
	ErrCodeInvalidInput:    apperr.KindBadRequest,
	ErrCodeInvalidImage:    apperr.KindBadRequest,
	ErrCodeInvalidImport:   apperr.KindBadRequest,
	ErrCodeImportNotFound:  apperr.KindNotFound,
	ErrCodeInternal:        apperr.KindInternal,
}

func NewProductError(code, message string, err error) *apperr.Error {
	return apperr.New(codeKinds[code], code, message, err)
}
