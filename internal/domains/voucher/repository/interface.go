package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/domains/voucher/model"
)

type VoucherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error)
	FindByCode(ctx context.Context, code string) (*model.Voucher, error)
	List(ctx context.Context, limit, offset int) ([]*model.Voucher, int64, error)

	// ListAvailableForUser: còn hạn, còn số lượng và user đủ điều kiện dùng
	ListAvailableForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*model.Voucher, error)

	// UserStatus trả nil nếu user chưa có dòng voucher_users
	UserStatus(ctx context.Context, voucherID, userID uuid.UUID) (*model.VoucherUserStatus, error)
	ListUsers(ctx context.Context, voucherID uuid.UUID) ([]model.VoucherUser, error)

	Create(ctx context.Context, v *model.Voucher) error
	// CreatePersonal tạo voucher và cấp cho userIDs trong cùng transaction
	CreatePersonal(ctx context.Context, v *model.Voucher, userIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
