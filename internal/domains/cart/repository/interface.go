package repository

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository lưu giỏ hàng dạng productID -> quantity
type CartRepository interface {
	Items(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error)
	Quantity(ctx context.Context, userID, productID uuid.UUID) (int, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID uuid.UUID, productIDs ...uuid.UUID) (int64, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}
