package messaging

import (
	"time"

	"github.com/crm/backend/internal/domain/messaging"
)

// CreateMessageRequest represents a request to create a message
type CreateMessageRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=10000"`
}

// UpdateMessageRequest patches a message. Omitted fields keep their value.
type UpdateMessageRequest struct {
	Title *string `json:"title" binding:"omitempty,max=200"`
	Body  *string `json:"body" binding:"omitempty,max=10000"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToMessageResponse converts a domain message
func ToMessageResponse(m *messaging.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Kind:      m.Kind.String(),
		Title:     m.Title,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
