package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"shop-backend/internal/domains/flashsale/service"
	"shop-backend/internal/infrastructure/email"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
	"shop-backend/pkg/logger"
)

const timeLayout = "15:04 02/01/2006"

// EmailHandler xử lý flashsale:email, mỗi task một user
type EmailHandler struct {
	flashSaleService service.FlashSaleService
	users            shared.UserDirectory
	emailService     email.EmailService
	frontendURL      string
}

func NewEmailHandler(
	flashSaleService service.FlashSaleService,
	users shared.UserDirectory,
	emailService email.EmailService,
	frontendURL string,
) *EmailHandler {
	return &EmailHandler{
		flashSaleService: flashSaleService,
		users:            users,
		emailService:     emailService,
		frontendURL:      frontendURL,
	}
}

func (h *EmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.FlashSaleEmailPayload
	if err := queue.DecodePayload(t, &payload); err != nil {
		return err
	}

	fs, err := h.flashSaleService.GetByID(ctx, payload.FlashSaleID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			// flash sale đã bị xoá trước khi gửi
			return fmt.Errorf("flash sale %s: %v: %w", payload.FlashSaleID, err, asynq.SkipRetry)
		}
		return err
	}

	user, err := h.users.GetBasicInfo(ctx, payload.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return fmt.Errorf("user %s: %v: %w", payload.UserID, err, asynq.SkipRetry)
		}
		return err
	}

	err = h.emailService.SendFlashSaleEmail(ctx, email.FlashSaleEmailData{
		Email:          user.Email,
		FullName:       user.FullName,
		ProductName:    fs.Product.Name,
		ProductURL:     fmt.Sprintf("%s/products/%s", h.frontendURL, fs.Product.Slug),
		ListedPrice:    fs.Product.ListedPrice.StringFixed(0),
		FlashSalePrice: fs.FlashSalePrice.StringFixed(0),
		StartAt:        fs.StartAt.Local().Format(timeLayout),
		DueAt:          fs.DueAt.Local().Format(timeLayout),
	})
	if err != nil {
		logger.ErrorWithFields("Failed to send flash sale email", err, map[string]interface{}{
			"flash_sale_id": fs.ID,
			"email":         user.Email,
		})
		return err
	}
	return nil
}
