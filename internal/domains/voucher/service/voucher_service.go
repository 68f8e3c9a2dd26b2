package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/voucher/model"
	"shop-backend/internal/domains/voucher/repository"
	"shop-backend/internal/shared/utils"
	"shop-backend/pkg/logger"
)

type VoucherService interface {
	// User
	ListAvailable(ctx context.Context, userID uuid.UUID) ([]*model.Voucher, error)
	// ValidateForUser trả voucher nếu user được phép dùng tại thời điểm now
	ValidateForUser(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*model.Voucher, error)

	// Admin
	List(ctx context.Context, req model.ListVouchersRequest) ([]*model.Voucher, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Voucher, []model.VoucherUser, error)
	CreateGeneral(ctx context.Context, req model.CreateGeneralVoucherRequest) (*model.Voucher, error)
	CreatePersonal(ctx context.Context, req model.CreatePersonalVoucherRequest) (*model.Voucher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const voucherCodePrefix = "VC"

var hundred = decimal.NewFromInt(100)

type voucherService struct {
	repo repository.VoucherRepository
	now  func() time.Time
}

func NewVoucherService(repo repository.VoucherRepository) VoucherService {
	return &voucherService{repo: repo, now: time.Now}
}

func (s *voucherService) ListAvailable(ctx context.Context, userID uuid.UUID) ([]*model.Voucher, error) {
	vouchers, err := s.repo.ListAvailableForUser(ctx, userID, s.now())
	if err != nil {
		return nil, model.NewVoucherError(model.ErrCodeInternal, "Failed to list vouchers", err)
	}
	return vouchers, nil
}

func (s *voucherService) ValidateForUser(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*model.Voucher, error) {
	v, err := s.repo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, model.ErrVoucherNotFound) {
			return nil, model.NewVoucherError(model.ErrCodeVoucherInvalid, model.MsgVoucherInvalid, err)
		}
		return nil, model.NewVoucherError(model.ErrCodeInternal, "Failed to get voucher", err)
	}

	status, err := s.repo.UserStatus(ctx, v.ID, userID)
	if err != nil {
		return nil, model.NewVoucherError(model.ErrCodeInternal, "Failed to get voucher", err)
	}

	if !v.CanBeUsedBy(status, now) {
		return nil, model.NewVoucherError(model.ErrCodeVoucherInvalid, model.MsgVoucherInvalid, nil)
	}
	return v, nil
}

func (s *voucherService) List(ctx context.Context, req model.ListVouchersRequest) ([]*model.Voucher, int64, error) {
	req.Normalize()
	vouchers, total, err := s.repo.List(ctx, req.Limit, (req.Page-1)*req.Limit)
	if err != nil {
		return nil, 0, model.NewVoucherError(model.ErrCodeInternal, "Failed to list vouchers", err)
	}
	return vouchers, total, nil
}

func (s *voucherService) GetByID(ctx context.Context, id uuid.UUID) (*model.Voucher, []model.VoucherUser, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, mapFindError(err)
	}

	var users []model.VoucherUser
	if v.Type == model.VoucherTypePersonal {
		users, err = s.repo.ListUsers(ctx, id)
		if err != nil {
			return nil, nil, model.NewVoucherError(model.ErrCodeInternal, "Failed to get voucher users", err)
		}
	}
	return v, users, nil
}

func mapFindError(err error) error {
	if errors.Is(err, model.ErrVoucherNotFound) {
		return model.NewVoucherError(model.ErrCodeVoucherNotFound, "No voucher found", err)
	}
	return model.NewVoucherError(model.ErrCodeInternal, "Failed to get voucher", err)
}

// ========================================
// CREATE
// ========================================

func (s *voucherService) CreateGeneral(ctx context.Context, req model.CreateGeneralVoucherRequest) (*model.Voucher, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewVoucherError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	v, err := s.buildVoucher(model.VoucherTypeGeneral, req.CustomCode, req.Unit, req.ValueDiscount)
	if err != nil {
		return nil, err
	}
	v.MaxDiscount = req.MaxDiscount
	v.MinOrderPrice = req.MinOrderPrice
	v.RemainQuantity = req.Quantity
	v.Description = req.Description
	v.StartAt = req.StartAt
	v.DueAt = req.DueAt

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, mapCreateError(err)
	}

	logger.Info("Voucher created", map[string]interface{}{"voucher_id": v.ID, "code": v.Code, "type": v.Type})
	return v, nil
}

// CreatePersonal: remain_quantity = số user được cấp (sau khi bỏ trùng)
func (s *voucherService) CreatePersonal(ctx context.Context, req model.CreatePersonalVoucherRequest) (*model.Voucher, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewVoucherError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	v, err := s.buildVoucher(model.VoucherTypePersonal, req.CustomCode, req.Unit, req.ValueDiscount)
	if err != nil {
		return nil, err
	}

	userIDs := uniqueIDs(req.VoucherUserIDs)
	v.MaxDiscount = req.MaxDiscount
	v.MinOrderPrice = req.MinOrderPrice
	v.RemainQuantity = len(userIDs)
	v.Description = req.Description
	v.StartAt = req.StartAt
	v.DueAt = req.DueAt

	if err := s.repo.CreatePersonal(ctx, v, userIDs); err != nil {
		return nil, mapCreateError(err)
	}

	logger.Info("Voucher created", map[string]interface{}{"voucher_id": v.ID, "code": v.Code, "type": v.Type, "users": len(userIDs)})
	return v, nil
}

func (s *voucherService) buildVoucher(typ model.VoucherType, customCode string, unit model.VoucherUnit, value decimal.Decimal) (*model.Voucher, error) {
	if unit == "" {
		unit = model.VoucherUnitPercent
	}
	if unit == model.VoucherUnitPercent && value.GreaterThan(hundred) {
		return nil, model.NewVoucherError(model.ErrCodePercentTooLarge, "Voucher cannot be more than 100%", nil)
	}

	code := strings.ToUpper(strings.TrimSpace(customCode))
	if code == "" {
		generated, err := utils.GenerateCode(12)
		if err != nil {
			return nil, model.NewVoucherError(model.ErrCodeInternal, "Failed to generate voucher code", err)
		}
		code = voucherCodePrefix + generated
	}

	return &model.Voucher{
		Code:  code,
		Type:  typ,
		Unit:  unit,
		Value: value,
	}, nil
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, model.ErrVoucherCodeExists):
		return model.NewVoucherError(model.ErrCodeCodeExists, "Voucher code already exists", err)
	case errors.Is(err, model.ErrUserNotExist):
		return model.NewVoucherError(model.ErrCodeUserNotExist, "Some user does not exist", err)
	default:
		return model.NewVoucherError(model.ErrCodeInternal, "Failed to create voucher", err)
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *voucherService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapFindError(err)
	}
	logger.Info("Voucher deleted", map[string]interface{}{"voucher_id": id})
	return nil
}
