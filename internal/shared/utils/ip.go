package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP lấy IP thật của client
// Thứ tự: X-Forwarded-For (IP đầu tiên) -> X-Real-IP -> RemoteAddr
func ExtractClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		clientIP := strings.TrimSpace(strings.Split(xff, ",")[0])
		if isValidIP(clientIP) {
			return NormalizeIP(clientIP)
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" && isValidIP(xri) {
		return NormalizeIP(xri)
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		ip = c.Request.RemoteAddr
	}
	if isValidIP(ip) {
		return NormalizeIP(ip)
	}

	return "127.0.0.1"
}

// NormalizeIP đổi loopback IPv6 sang IPv4, VNPay không nhận "::1"
func NormalizeIP(ip string) string {
	if ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}

// IsPrivateIP checks if an IP address is in private range
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback()
}
