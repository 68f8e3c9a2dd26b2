package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func statusPtr(s VoucherUserStatus) *VoucherUserStatus { return &s }

func TestVoucher_CanBeUsedBy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := func(typ VoucherType) *Voucher {
		return &Voucher{Type: typ, RemainQuantity: 5, StartAt: now.Add(-time.Hour), DueAt: now.Add(time.Hour)}
	}

	tests := []struct {
		name    string
		voucher *Voucher
		status  *VoucherUserStatus
		want    bool
	}{
		{"general, never used", active(VoucherTypeGeneral), nil, true},
		{"general, already used", active(VoucherTypeGeneral), statusPtr(VoucherUserUsed), false},
		{"personal, allocated", active(VoucherTypePersonal), statusPtr(VoucherUserNotUsed), true},
		{"personal, not allocated", active(VoucherTypePersonal), nil, false},
		{"personal, used", active(VoucherTypePersonal), statusPtr(VoucherUserUsed), false},
		{"exhausted", &Voucher{Type: VoucherTypeGeneral, RemainQuantity: 0, StartAt: now.Add(-time.Hour), DueAt: now.Add(time.Hour)}, nil, false},
		{"not started", &Voucher{Type: VoucherTypeGeneral, RemainQuantity: 1, StartAt: now.Add(time.Minute), DueAt: now.Add(time.Hour)}, nil, false},
		{"expired", &Voucher{Type: VoucherTypeGeneral, RemainQuantity: 1, StartAt: now.Add(-2 * time.Hour), DueAt: now.Add(-time.Hour)}, nil, false},
		{"boundary due_at inclusive", &Voucher{Type: VoucherTypeGeneral, RemainQuantity: 1, StartAt: now.Add(-time.Hour), DueAt: now}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.voucher.CanBeUsedBy(tt.status, now))
		})
	}
}
