package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored document.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service archives case documents in remote object storage.
type Service interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
