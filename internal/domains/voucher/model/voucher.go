package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VoucherType string

const (
	VoucherTypeGeneral  VoucherType = "General"
	VoucherTypePersonal VoucherType = "Personal"
)

type VoucherUnit string

const (
	VoucherUnitPercent VoucherUnit = "Percent"
	VoucherUnitMoney   VoucherUnit = "Money"
)

func (u VoucherUnit) IsValid() bool {
	return u == VoucherUnitPercent || u == VoucherUnitMoney
}

type VoucherUserStatus string

const (
	VoucherUserNotUsed VoucherUserStatus = "NotUsed"
	VoucherUserUsed    VoucherUserStatus = "Used"
)

type Voucher struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Type           VoucherType      `json:"type"`
	Unit           VoucherUnit      `json:"unit"`
	Value          decimal.Decimal  `json:"value"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty"`
	MinOrderPrice  *decimal.Decimal `json:"min_order_price,omitempty"`
	RemainQuantity int              `json:"remain_quantity"`
	Description    string           `json:"description"`
	StartAt        time.Time        `json:"start_at"`
	DueAt          time.Time        `json:"due_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// InWindow: startAt <= now <= dueAt
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartAt) && !now.After(v.DueAt)
}

// MeetsMinOrderPrice false khi có minOrderPrice và total < minOrderPrice
func (v *Voucher) MeetsMinOrderPrice(total decimal.Decimal) bool {
	return v.MinOrderPrice == nil || !total.LessThan(*v.MinOrderPrice)
}

// CanBeUsedBy kiểm tra cửa sổ thời gian, số lượng còn lại và quyền của user.
// userStatus nil nghĩa là user chưa có dòng voucher_users nào.
//   - General: user chưa dùng (không có dòng Used)
//   - Personal: user nằm trong danh sách được cấp và chưa dùng
func (v *Voucher) CanBeUsedBy(userStatus *VoucherUserStatus, now time.Time) bool {
	if !v.InWindow(now) || v.RemainQuantity <= 0 {
		return false
	}
	switch v.Type {
	case VoucherTypeGeneral:
		return userStatus == nil || *userStatus != VoucherUserUsed
	case VoucherTypePersonal:
		return userStatus != nil && *userStatus == VoucherUserNotUsed
	default:
		return false
	}
}

type VoucherUser struct {
	VoucherID uuid.UUID         `json:"voucher_id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    VoucherUserStatus `json:"status"`
	UsedAt    *time.Time        `json:"used_at,omitempty"`
}
