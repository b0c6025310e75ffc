package storage

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/crm/backend/internal/application/upload"
)

var _ upload.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage returns well-formed but unsigned URLs.
// It lets the upload flow run in development without a storage service.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a stub rooted at baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{BaseURL: baseURL}
}

// PresignUpload returns a fake PUT URL
func (s *StubObjectStorage) PresignUpload(_ context.Context, key, contentType string, size int64, expiresIn time.Duration) (*upload.PresignedURL, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return &upload.PresignedURL{
		URL:    s.url("upload", key, expiresAt),
		Method: http.MethodPut,
		Headers: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": strconv.FormatInt(size, 10),
		},
		ExpiresAt: expiresAt,
	}, nil
}

// PresignDownload returns a fake GET URL
func (s *StubObjectStorage) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (*upload.PresignedURL, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return &upload.PresignedURL{
		URL:       s.url("download", key, expiresAt),
		Method:    http.MethodGet,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *StubObjectStorage) url(op, key string, expiresAt time.Time) string {
	return s.BaseURL + "/" + op + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
}
