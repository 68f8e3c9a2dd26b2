package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"shop-backend/internal/shared/utils"
)

type clientIPKey struct{}

// ClientIPMiddleware đưa client IP vào gin context và request context
// để service (VNPay vnp_IpAddr) đọc được qua GetClientIPFromContext
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)
		c.Request = c.Request.WithContext(WithClientIP(c.Request.Context(), clientIP))

		c.Next()
	}
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// GetClientIPFromContext returns "127.0.0.1" if not found
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "127.0.0.1"
}
