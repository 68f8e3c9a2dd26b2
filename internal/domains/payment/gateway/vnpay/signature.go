package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// =====================================================
// VNPAY SIGNATURE
// =====================================================

const (
	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
)

// encodeValue encode giống urlencode của PHP: space -> '+', ký tự đặc biệt -> %XX
func encodeValue(s string) string {
	return url.QueryEscape(s)
}

// SignData build chuỗi ký: key sort tăng dần, bỏ vnp_SecureHash / vnp_SecureHashType
// và value rỗng, key + value đã encode, nối bằng '&'.
// Chuỗi này cũng chính là query string của payment URL
func SignData(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == paramSecureHash || k == paramSecureHashType || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, encodeValue(k)+"="+encodeValue(params[k]))
	}
	return strings.Join(parts, "&")
}

// Sign HMAC-SHA512(data, secret), hex
func Sign(data, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// BuildPaymentURL: <base>?<signData>&vnp_SecureHash=<sign>
func BuildPaymentURL(baseURL string, params map[string]string, secret string) string {
	data := SignData(params)
	return baseURL + "?" + data + "&" + paramSecureHash + "=" + Sign(data, secret)
}

// VerifyValues verify query của return URL / IPN.
// values là query đã decode (url.Values), được encode lại trước khi ký
func VerifyValues(values url.Values, secret string) bool {
	received := values.Get(paramSecureHash)
	if received == "" {
		return false
	}

	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}

	return equalSignature(received, Sign(SignData(params), secret))
}

// pipeHash dùng cho API refund: các field nối bằng '|'
func pipeHash(secret string, fields ...string) string {
	return Sign(strings.Join(fields, "|"), secret)
}

// equalSignature so sánh constant-time, không phân biệt hoa thường
func equalSignature(a, b string) bool {
	return hmac.Equal([]byte(strings.ToLower(a)), []byte(strings.ToLower(b)))
}
