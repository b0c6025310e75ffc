package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/upload"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// LogoService is the part of upload.LogoService the handler uses.
type LogoService interface {
	RequestUpload(ctx context.Context, req upload.LogoUploadRequest) (*upload.LogoUploadResponse, error)
	DownloadURL(ctx context.Context, key string) (*upload.LogoDownloadResponse, error)
}

// UploadHandler hands out presigned URLs for logo images
type UploadHandler struct {
	BaseHandler
	logos LogoService
}

// NewUploadHandler creates an UploadHandler
func NewUploadHandler(logos LogoService) *UploadHandler {
	return &UploadHandler{logos: logos}
}

// RequestLogoUpload handles POST /uploads/logo
func (h *UploadHandler) RequestLogoUpload(c *gin.Context) {
	var req upload.LogoUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.logos.RequestUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LogoDownloadURL handles GET /uploads/logo?key=
func (h *UploadHandler) LogoDownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "key", Message: "This field is required"}})
		return
	}
	resp, err := h.logos.DownloadURL(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
