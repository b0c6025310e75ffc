package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/messaging"
)

// MessageService is the part of messaging.MessageService the handler uses.
type MessageService interface {
	List(ctx context.Context) ([]messaging.MessageResponse, error)
	GetByID(ctx context.Context, id int64) (*messaging.MessageResponse, error)
	Create(ctx context.Context, req messaging.CreateMessageRequest) (*messaging.MessageResponse, error)
	Update(ctx context.Context, id int64, req messaging.UpdateMessageRequest) (*messaging.MessageResponse, error)
	Delete(ctx context.Context, id int64) error
}

// MessageHandler serves one kind of message. The router mounts one for
// /canned-messages and one for /template-messages.
type MessageHandler struct {
	BaseHandler
	service MessageService
}

// NewMessageHandler creates a MessageHandler
func NewMessageHandler(service MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// List handles GET on the collection, newest first
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messages)
}

// GetByID handles GET /:id
func (h *MessageHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	msg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// Create handles POST on the collection
func (h *MessageHandler) Create(c *gin.Context) {
	var req messaging.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

// Update handles PUT /:id
func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req messaging.UpdateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// Delete handles DELETE /:id. Deleting twice is not an error.
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
