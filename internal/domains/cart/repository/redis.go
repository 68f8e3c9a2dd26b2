package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shop-backend/pkg/logger"
)

// giỏ hàng không hoạt động quá cartTTL sẽ tự hết hạn
const cartTTL = 30 * 24 * time.Hour

type redisCartRepository struct {
	client *redis.Client
}

func NewRedisCartRepository(client *redis.Client) CartRepository {
	return &redisCartRepository{client: client}
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (r *redisCartRepository) Items(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	raw, err := r.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items := make(map[uuid.UUID]int, len(raw))
	for field, value := range raw {
		id, err := uuid.Parse(field)
		if err != nil {
			logger.Debug(fmt.Sprintf("skip invalid cart field %q", field))
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty <= 0 {
			continue
		}
		items[id] = qty
	}
	return items, nil
}

func (r *redisCartRepository) Quantity(ctx context.Context, userID, productID uuid.UUID) (int, error) {
	qty, err := r.client.HGet(ctx, cartKey(userID), productID.String()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cart item: %w", err)
	}
	return qty, nil
}

func (r *redisCartRepository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	key := cartKey(userID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, productID.String(), quantity)
		pipe.Expire(ctx, key, cartTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

func (r *redisCartRepository) Remove(ctx context.Context, userID uuid.UUID, productIDs ...uuid.UUID) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	fields := make([]string, len(productIDs))
	for i, id := range productIDs {
		fields[i] = id.String()
	}

	n, err := r.client.HDel(ctx, cartKey(userID), fields...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to remove cart items: %w", err)
	}
	return n, nil
}

func (r *redisCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
