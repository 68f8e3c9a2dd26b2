package response

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shop-backend/internal/shared/apperr"
)

// HandleError map lỗi service -> HTTP response.
// Lỗi không phân loại trả 500 và không lộ chi tiết ra ngoài
func HandleError(c *gin.Context, err error) {
	if appErr := apperr.As(err); appErr != nil {
		if appErr.Kind == apperr.KindInternal {
			log.Error().Err(err).Str("code", appErr.Code).Str("path", c.Request.URL.Path).Msg("Internal error")
		}
		ErrorResponse(c, appErr.Kind.HTTPStatus(), appErr.Code, appErr.Message)
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	InternalServerError(c, "Internal server error")
}
