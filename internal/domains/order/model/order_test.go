package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	paymentModel "shop-backend/internal/domains/payment/model"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{
		OrderStatusWaiting, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusUnclaimed, OrderStatusCompleted, OrderStatusCanceled,
	}
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusWaiting, OrderStatusConfirmed}:   true,
		{OrderStatusConfirmed, OrderStatusShipping}:  true,
		{OrderStatusShipping, OrderStatusUnclaimed}:  true,
		{OrderStatusShipping, OrderStatusCompleted}:  true,
		{OrderStatusUnclaimed, OrderStatusCompleted}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]OrderStatus{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Cancel(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		userCan  bool
		adminCan bool
	}{
		{OrderStatusWaiting, true, true},
		{OrderStatusConfirmed, false, true},
		{OrderStatusShipping, false, true},
		{OrderStatusUnclaimed, false, true},
		{OrderStatusCompleted, false, false},
		{OrderStatusCanceled, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.userCan, tt.status.CanBeCanceledByUser())
			assert.Equal(t, tt.adminCan, tt.status.CanBeCanceledByAdmin())
		})
	}
	assert.Len(t, CancelableStatuses, 4)
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	valid := CreateOrderRequest{
		Products:      []OrderItemRequest{{ProductID: uuid.New(), Quantity: 2}},
		PaymentMethod: paymentModel.PaymentMethodCOD,
		ReceiverName:  "Nguyễn Văn A",
		OrderPhone:    "0912345678",
		OrderAddress:  "1 Lê Lợi, Q1, HCM",
	}
	assert.NoError(t, valid.Validate())

	noItems := valid
	noItems.Products = nil
	assert.Error(t, noItems.Validate())

	zeroQty := valid
	zeroQty.Products = []OrderItemRequest{{ProductID: uuid.New(), Quantity: 0}}
	assert.Error(t, zeroQty.Validate())

	nilProduct := valid
	nilProduct.Products = []OrderItemRequest{{ProductID: uuid.Nil, Quantity: 1}}
	assert.Error(t, nilProduct.Validate())

	badMethod := valid
	badMethod.PaymentMethod = "Cash"
	assert.Error(t, badMethod.Validate())
}
