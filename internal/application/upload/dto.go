package upload

import "time"

// LogoUploadRequest declares the file a client is about to upload
type LogoUploadRequest struct {
	FileName    string `json:"file_name" binding:"max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// LogoUploadResponse tells the client where and how to upload
type LogoUploadResponse struct {
	Key       string            `json:"key"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// LogoDownloadResponse carries a time-limited download URL
type LogoDownloadResponse struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
