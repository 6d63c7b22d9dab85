// Package storage holds uploaded report files behind a backend-
// agnostic interface.
package storage

import (
	"context"
	"fmt"
	"io"

	cfg "github.com/harshitnub077/SynapticCare-sub000/config"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/storage/minio"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/storage/s3"
)

// Backend selects the storage implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendMinio Backend = "minio"
	BackendS3    Backend = "s3"
)

// Storage stores and retrieves report files by reference.
type Storage interface {
	// Store writes the file and returns its reference.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get opens the file behind a reference.
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
	// Delete removes the file behind a reference.
	Delete(ctx context.Context, ref string) error
}

// NewStorage builds the configured backend.
func NewStorage(backend Backend, log logger.Logger) (Storage, error) {
	switch backend {
	case BackendLocal:
		return NewLocalStorage(cfg.GetStorageConfig().LocalDir, log)
	case BackendMinio:
		return minio.NewMinioStorage(log)
	case BackendS3:
		return s3.NewS3Storage(log)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
