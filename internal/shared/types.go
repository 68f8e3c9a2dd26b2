package shared

import (
	"context"

	"github.com/google/uuid"
)

// Asynq task types
const (
	TypeImportProducts      = "product:import"
	TypeFlashSaleNotify     = "flashsale:notify"
	TypeFlashSaleActivate   = "flashsale:activate"
	TypeFlashSaleDeactivate = "flashsale:deactivate"
	TypeFlashSaleEmail      = "flashsale:email"
	TypeOrderStatusEmail    = "order:status_email"
	TypeFlashSaleRecover    = "flashsale:recover"
)

// Queue names, priority theo thứ tự critical > high > default > low
const (
	QueueCritical = "critical"
	QueueHigh     = "high"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Kafka event types (topic order-events)
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
	EventOrderRefunded      = "order.refunded"
)

// ImportProductsPayload: file import đã được upload lên object storage
type ImportProductsPayload struct {
	ImportID  uuid.UUID `json:"importId"`
	ObjectKey string    `json:"objectKey"`
	Sheet     string    `json:"sheet"`
}

// FlashSaleTimerPayload dùng chung cho notify/activate/deactivate
type FlashSaleTimerPayload struct {
	FlashSaleID uuid.UUID `json:"flashSaleId"`
}

// FlashSaleEmailPayload: một email cho một user
type FlashSaleEmailPayload struct {
	UserID      uuid.UUID `json:"userId"`
	FlashSaleID uuid.UUID `json:"flashSaleId"`
}

type OrderStatusEmailPayload struct {
	OrderID uuid.UUID `json:"orderId"`
	Status  string    `json:"status"`
}

// UserBasicInfo để tránh import cycle với user domain
type UserBasicInfo struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// Notifier tạo thông báo Specific cho một user, notification domain implement.
// Caller coi là fire-and-forget: lỗi chỉ log, không rollback
type Notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, title, content, link string) error
}

// UserDirectory tra cứu thông tin user cho job gửi email, user domain implement
type UserDirectory interface {
	GetBasicInfo(ctx context.Context, userID uuid.UUID) (*UserBasicInfo, error)
	// ListCustomerIDs: mọi user không phải admin
	ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Broadcaster tạo thông báo General cho mọi user
type Broadcaster interface {
	Broadcast(ctx context.Context, title, content, link string) error
}
