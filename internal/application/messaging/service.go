// Package messaging holds the use cases for canned and template messages.
package messaging

import (
	"context"

	"github.com/crm/backend/internal/domain/messaging"
	"go.uber.org/zap"
)

// MessageService manages one kind of message. The canned and template
// endpoints each get their own instance.
type MessageService struct {
	kind   messaging.Kind
	repo   messaging.MessageRepository
	logger *zap.Logger
}

// NewMessageService creates a MessageService for kind
func NewMessageService(kind messaging.Kind, repo messaging.MessageRepository, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{kind: kind, repo: repo, logger: logger.With(zap.String("message_kind", kind.String()))}
}

// Kind returns the kind of message this service manages
func (s *MessageService) Kind() messaging.Kind {
	return s.kind
}

// List returns every message newest-first
func (s *MessageService) List(ctx context.Context) ([]MessageResponse, error) {
	messages, err := s.repo.List(ctx, s.kind)
	if err != nil {
		return nil, err
	}

	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = ToMessageResponse(&messages[i])
	}
	return responses, nil
}

// GetByID retrieves a message
func (s *MessageService) GetByID(ctx context.Context, id int64) (*MessageResponse, error) {
	message, err := s.repo.FindByID(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}
	response := ToMessageResponse(message)
	return &response, nil
}

// Create stores a new message
func (s *MessageService) Create(ctx context.Context, req CreateMessageRequest) (*MessageResponse, error) {
	message, err := messaging.NewMessage(s.kind, req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, message); err != nil {
		return nil, err
	}

	response := ToMessageResponse(message)
	return &response, nil
}

// Update patches a message
func (s *MessageService) Update(ctx context.Context, id int64, req UpdateMessageRequest) (*MessageResponse, error) {
	message, err := s.repo.FindByID(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}

	if err := message.Apply(messaging.Patch{Title: req.Title, Body: req.Body}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, message); err != nil {
		return nil, err
	}

	response := ToMessageResponse(message)
	return &response, nil
}

// Delete removes a message. A missing message is not an error.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, s.kind, id)
	if err != nil {
		return err
	}
	if !removed {
		s.logger.Debug("Delete of missing message ignored", zap.Int64("message_id", id))
	}
	return nil
}
