package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shop-backend/internal/shared/response"
)

// Recovery bắt panic, log kèm stack, trả 500 theo response envelope chung
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")

				c.Abort()
				response.ErrorResponse(c, http.StatusInternalServerError, "SYS_001", "Internal server error")
			}
		}()

		c.Next()
	}
}
