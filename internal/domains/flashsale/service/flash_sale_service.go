package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"shop-backend/internal/config"
	"shop-backend/internal/domains/flashsale/model"
	"shop-backend/internal/domains/flashsale/repository"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
	"shop-backend/pkg/logger"
)

type FlashSaleService interface {
	// Admin
	Create(ctx context.Context, req model.CreateFlashSaleRequest) (*model.FlashSale, error)
	List(ctx context.Context, req model.ListFlashSalesRequest) ([]*model.FlashSale, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.FlashSale, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Public
	ListActive(ctx context.Context) ([]*model.FlashSale, error)

	// Timer callbacks (asynq handlers)
	Notify(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Recover(ctx context.Context) (int, error)
}

type flashSaleService struct {
	repo        repository.FlashSaleRepository
	timers      Timers
	broadcaster shared.Broadcaster
	users       shared.UserDirectory
	queue       queue.Enqueuer
	cfg         config.FlashSaleConfig
	now         func() time.Time
}

func NewFlashSaleService(
	repo repository.FlashSaleRepository,
	timers Timers,
	broadcaster shared.Broadcaster,
	users shared.UserDirectory,
	enqueuer queue.Enqueuer,
	cfg config.FlashSaleConfig,
) FlashSaleService {
	return &flashSaleService{
		repo:        repo,
		timers:      timers,
		broadcaster: broadcaster,
		users:       users,
		queue:       enqueuer,
		cfg:         cfg,
		now:         time.Now,
	}
}

// =====================================================
// ADMIN
// =====================================================

func (s *flashSaleService) Create(ctx context.Context, req model.CreateFlashSaleRequest) (*model.FlashSale, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewFlashSaleError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	// now < startAt <= dueAt
	if !s.now().Before(req.StartAt) || req.StartAt.After(req.DueAt) {
		return nil, model.NewFlashSaleError(model.ErrCodeInvalidTime, "Flash sale time is not valid", nil)
	}

	fs := &model.FlashSale{
		ProductID:         req.ProductID,
		FlashSalePrice:    req.FlashSalePrice,
		FlashSaleQuantity: req.FlashSaleQuantity,
		StartAt:           req.StartAt,
		DueAt:             req.DueAt,
	}

	err := s.repo.Create(ctx, fs, func(p *model.ProductSummary, existing []*model.FlashSale) error {
		for _, other := range existing {
			if other.Overlaps(req.StartAt, req.DueAt) {
				return model.NewFlashSaleError(model.ErrCodeOverlap, "There was a flashsale that existed during this time", nil)
			}
		}
		if req.FlashSalePrice.GreaterThan(p.SalePrice) {
			return model.NewFlashSaleError(model.ErrCodeInvalidPrice, "Flash sale price is not valid", nil)
		}
		if req.FlashSaleQuantity > p.QuantityInStock {
			return model.NewFlashSaleError(model.ErrCodeNotEnoughStock, "Products quantity in stock is not enough flash sale quantity", nil)
		}
		return nil
	})
	if err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, model.NewFlashSaleError(model.ErrCodeProductNotFound, "No product found", err)
		}
		return nil, model.NewFlashSaleError(model.ErrCodeInternal, "Failed to create flash sale", err)
	}

	if err := s.timers.Schedule(ctx, fs); err != nil {
		// activate/deactivate bị lỡ sẽ được recovery sweep enqueue lại
		logger.ErrorWithFields("Failed to schedule flash sale timers", err, map[string]interface{}{
			"flash_sale_id": fs.ID,
		})
	}

	logger.Info("Flash sale created", map[string]interface{}{
		"flash_sale_id": fs.ID,
		"product_id":    fs.ProductID,
		"start_at":      fs.StartAt,
		"due_at":        fs.DueAt,
	})
	return fs, nil
}

func (s *flashSaleService) List(ctx context.Context, req model.ListFlashSalesRequest) ([]*model.FlashSale, int64, error) {
	req.Normalize()
	out, total, err := s.repo.List(ctx, req.ProductUUID(), req.Limit, req.Offset())
	if err != nil {
		return nil, 0, model.NewFlashSaleError(model.ErrCodeInternal, "Failed to list flash sales", err)
	}
	return out, total, nil
}

func (s *flashSaleService) ListActive(ctx context.Context) ([]*model.FlashSale, error) {
	out, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, model.NewFlashSaleError(model.ErrCodeInternal, "Failed to list flash sales", err)
	}
	return out, nil
}

func (s *flashSaleService) GetByID(ctx context.Context, id uuid.UUID) (*model.FlashSale, error) {
	fs, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrFlashSaleNotFound) {
			return nil, model.NewFlashSaleError(model.ErrCodeFlashSaleNotFound, "No flashsale found", err)
		}
		return nil, model.NewFlashSaleError(model.ErrCodeInternal, "Failed to get flash sale", err)
	}
	return fs, nil
}

// Delete khôi phục product ngay (như deactivate) rồi huỷ các timer còn lại
func (s *flashSaleService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return model.NewFlashSaleError(model.ErrCodeInternal, "Failed to delete flash sale", err)
	}
	if !deleted {
		return model.NewFlashSaleError(model.ErrCodeFlashSaleNotFound, "No flashsale found", nil)
	}

	s.timers.Cancel(id)
	logger.Info("Flash sale deleted", map[string]interface{}{"flash_sale_id": id})
	return nil
}

// =====================================================
// TIMER CALLBACKS
// =====================================================

// Notify: thông báo chung + fan-out một email task cho mỗi user
func (s *flashSaleService) Notify(ctx context.Context, id uuid.UUID) error {
	fs, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrFlashSaleNotFound) {
			logger.Info("Flash sale no longer exists, skip notify", map[string]interface{}{"flash_sale_id": id})
			return nil
		}
		return err
	}

	title := fmt.Sprintf("FlashSale cho sản phẩm '%s'", fs.Product.Name)
	content := fmt.Sprintf("Bắt đầu lúc %s. Giá giảm từ %sđ xuống còn %sđ",
		fs.StartAt.Local().Format("15:04 02/01/2006"),
		fs.Product.ListedPrice.StringFixed(0),
		fs.FlashSalePrice.StringFixed(0))
	if err := s.broadcaster.Broadcast(ctx, title, content, "/products/"+fs.Product.Slug); err != nil {
		logger.Error("Failed to broadcast flash sale notification", err)
	}

	userIDs, err := s.users.ListCustomerIDs(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, userID := range userIDs {
		_, err := queue.EnqueueJSON(ctx, s.queue, shared.TypeFlashSaleEmail,
			shared.FlashSaleEmailPayload{UserID: userID, FlashSaleID: fs.ID},
			asynq.Queue(s.cfg.EmailQueue),
			asynq.MaxRetry(3),
			asynq.TaskID(fmt.Sprintf("%s:%s:%s", shared.TypeFlashSaleEmail, fs.ID, userID)),
		)
		if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			failed++
		}
	}

	logger.Info("Flash sale notified", map[string]interface{}{
		"flash_sale_id": fs.ID,
		"users":         len(userIDs),
		"failed":        failed,
	})
	return nil
}

func (s *flashSaleService) Activate(ctx context.Context, id uuid.UUID) error {
	activated, err := s.repo.Activate(ctx, id)
	if err != nil {
		return err
	}
	logger.Info("Flash sale activate", map[string]interface{}{
		"flash_sale_id": id,
		"activated":     activated,
	})
	return nil
}

func (s *flashSaleService) Deactivate(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	logger.Info("Flash sale deactivate", map[string]interface{}{
		"flash_sale_id": id,
		"deleted":       deleted,
	})
	return nil
}

// Recover enqueue lại activate/deactivate đã quá hạn, trả về số task đã enqueue
func (s *flashSaleService) Recover(ctx context.Context) (int, error) {
	now := s.now()

	pending, err := s.repo.ListPendingActivations(ctx, now)
	if err != nil {
		return 0, err
	}
	expired, err := s.repo.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	var errs []error
	for _, id := range pending {
		if err := s.timers.EnqueueNow(ctx, shared.TypeFlashSaleActivate, id); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}
	for _, id := range expired {
		if err := s.timers.EnqueueNow(ctx, shared.TypeFlashSaleDeactivate, id); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}

	if count > 0 {
		logger.Info("Flash sale recovery sweep", map[string]interface{}{
			"activations":   len(pending),
			"deactivations": len(expired),
		})
	}
	return count, errors.Join(errs...)
}
