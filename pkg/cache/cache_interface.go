package cache

import (
	"context"
	"time"
)

// Cache interface định nghĩa contract cho cache layer
type Cache interface {
	// Get lấy data từ cache và unmarshal vào dest
	// Returns (found, error): found = false khi cache miss
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set lưu data vào cache với TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// SetNX chỉ set khi key chưa tồn tại, true nếu set thành công
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
