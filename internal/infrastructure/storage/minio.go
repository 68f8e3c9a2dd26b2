package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"shop-backend/internal/config"
)

// MinIOStorage handles file uploads to MinIO
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ FileStorage = (*MinIOStorage)(nil)

// NewMinIOStorage khởi tạo MinIO client, tạo bucket nếu chưa có
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &MinIOStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s/", scheme, client.EndpointURL().Host, cfg.Bucket),
	}, nil
}

// Upload trả về public URL của object
// key: đường dẫn trong bucket (vd: products/<id>/large.jpg)
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.baseURL + key, nil
}

func (s *MinIOStorage) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix xoá mọi object dưới prefix (vd: products/<id>/)
func (s *MinIOStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	objectsCh := make(chan minio.ObjectInfo)

	go func() {
		defer close(objectsCh)
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if obj.Err != nil {
				return
			}
			objectsCh <- obj
		}
	}()

	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil {
			return fmt.Errorf("failed to delete %s: %w", rErr.ObjectName, rErr.Err)
		}
	}
	return nil
}

// KeyFromURL ngược lại của Upload
func (s *MinIOStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.baseURL) {
		return "", false
	}
	return strings.TrimPrefix(url, s.baseURL), true
}
