package apperr

import (
	"errors"
	"net/http"
)

// Kind phân loại lỗi ở service boundary, handler map Kind -> HTTP status
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error là lỗi nghiệp vụ có code (ORD001, VCH002, ...) và message cho người dùng
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// As lấy *Error trong chain, nil nếu không có
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// KindOf trả về KindInternal cho lỗi không phân loại
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.Kind
	}
	return KindInternal
}
