// Package upload issues presigned URLs for logo images kept in object storage.
package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogoKeyPrefix is the storage namespace of uploaded logos
const LogoKeyPrefix = "logos/"

// AllowedLogoTypes maps accepted content types to their file extension.
// SVG is excluded: it can embed scripts.
var AllowedLogoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PresignedURL is a time-limited URL granting one operation on one object
type PresignedURL struct {
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// ObjectStorage is implemented by the S3 and stub backends
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, size int64, expiresIn time.Duration) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (*PresignedURL, error)
}

// Config holds limits for logo uploads
type Config struct {
	MaxSize   int64
	URLExpiry time.Duration
	KeyPrefix string
}

// DefaultConfig allows 2 MiB logos with 15 minute URLs
func DefaultConfig() Config {
	return Config{
		MaxSize:   2 << 20,
		URLExpiry: 15 * time.Minute,
		KeyPrefix: LogoKeyPrefix,
	}
}

// LogoService validates logo uploads and hands out presigned URLs
type LogoService struct {
	storage ObjectStorage
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewLogoService creates a new LogoService
func NewLogoService(storage ObjectStorage, cfg Config, logger *zap.Logger) *LogoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = LogoKeyPrefix
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = DefaultConfig().URLExpiry
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultConfig().MaxSize
	}
	return &LogoService{storage: storage, cfg: cfg, logger: logger, now: time.Now}
}

// RequestUpload validates the declared file and returns where to PUT it
func (s *LogoService) RequestUpload(ctx context.Context, req LogoUploadRequest) (*LogoUploadResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedLogoTypes[contentType]

	verr := &shared.ValidationError{}
	if !ok {
		verr.Add("content_type", "must be one of image/png, image/jpeg, image/gif, image/webp")
	}
	switch {
	case req.Size <= 0:
		verr.Add("size", "must be greater than 0")
	case req.Size > s.cfg.MaxSize:
		verr.Add("size", fmt.Sprintf("cannot exceed %d bytes", s.cfg.MaxSize))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%04d/%02d/%s%s", s.cfg.KeyPrefix, now.Year(), int(now.Month()), uuid.NewString(), ext)

	presigned, err := s.storage.PresignUpload(ctx, key, contentType, req.Size, s.cfg.URLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign logo upload", zap.String("key", key), zap.Error(err))
		return nil, shared.NewStoreError("upload.presign", err)
	}

	s.logger.Info("Logo upload URL issued",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("size", req.Size),
	)
	return &LogoUploadResponse{
		Key:       key,
		UploadURL: presigned.URL,
		Method:    presigned.Method,
		Headers:   presigned.Headers,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// DownloadURL returns a presigned GET URL for a previously uploaded logo
func (s *LogoService) DownloadURL(ctx context.Context, key string) (*LogoDownloadResponse, error) {
	key = strings.TrimSpace(key)
	if !s.validKey(key) {
		return nil, shared.NewValidationError("key", "must reference an uploaded logo")
	}

	presigned, err := s.storage.PresignDownload(ctx, key, s.cfg.URLExpiry)
	if err != nil {
		return nil, shared.NewStoreError("upload.presign_download", err)
	}
	return &LogoDownloadResponse{
		Key:         key,
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt,
	}, nil
}

func (s *LogoService) validKey(key string) bool {
	if !strings.HasPrefix(key, s.cfg.KeyPrefix) || path.Clean(key) != key {
		return false
	}
	for _, ext := range AllowedLogoTypes {
		if strings.HasSuffix(key, ext) {
			return true
		}
	}
	return false
}
