package storage

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

// ImageStore persists processed images under a key and hands back the URL
// clients should use to fetch them.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New picks S3 when a bucket is configured and the local upload dir
// otherwise.
func New(cfg config.StorageConfig) (ImageStore, error) {
	if cfg.S3Bucket != "" {
		return NewS3Store(cfg), nil
	}
	return NewLocalStore(cfg.UploadDir, cfg.PublicURL)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
