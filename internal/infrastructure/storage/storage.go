package storage

import "context"

// FileStorage là contract object storage mà các domain dùng (product image, import file, chat file)
type FileStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	KeyFromURL(url string) (string, bool)
}
