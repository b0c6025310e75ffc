package storage

import (
	"fmt"

	"github.com/crm/backend/internal/application/upload"
	"github.com/crm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the backend selected by cfg.Provider
func New(cfg *config.StorageConfig, logger *zap.Logger) (upload.ObjectStorage, error) {
	switch cfg.Provider {
	case "", "stub":
		logger.Warn("Using stub object storage; logo URLs are not usable")
		return NewStubObjectStorage(cfg.StubBaseURL), nil
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
