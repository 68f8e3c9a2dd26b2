package model

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

// RspCode trả về cho VNPay
const (
	RspSuccess          = "00"
	RspOrderNotFound    = "01"
	RspAlreadyConfirmed = "02"
	RspInvalidAmount    = "04"
	RspInvalidSignature = "97"
	RspUnknown          = "99"
)
