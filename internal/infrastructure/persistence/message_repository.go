package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/messaging"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// List returns all messages of a kind, newest first
func (r *GormMessageRepository) List(ctx context.Context, kind messaging.Kind) ([]messaging.Message, error) {
	var messageModels []models.MessageModel
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at DESC").
		Order("id DESC").
		Find(&messageModels).Error
	if err != nil {
		return nil, shared.NewStoreError("message.list", err)
	}

	messages := make([]messaging.Message, len(messageModels))
	for i := range messageModels {
		messages[i] = *messageModels[i].ToDomain()
	}
	return messages, nil
}

// FindByID finds a message by kind and ID
func (r *GormMessageRepository) FindByID(ctx context.Context, kind messaging.Kind, id int64) (*messaging.Message, error) {
	var model models.MessageModel
	if err := r.db.WithContext(ctx).Where("kind = ? AND id = ?", kind, id).First(&model).Error; err != nil {
		return nil, storeError("message.find", "Message", id, err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a message
func (r *GormMessageRepository) Save(ctx context.Context, message *messaging.Message) error {
	model := models.MessageModelFromDomain(message)

	var err error
	if message.IsNew() {
		err = r.db.WithContext(ctx).Create(model).Error
	} else {
		err = r.db.WithContext(ctx).Save(model).Error
	}
	if err != nil {
		return shared.NewStoreError("message.save", err)
	}

	model.CopyTo(&message.BaseEntity)
	return nil
}

// Delete removes a message and reports whether a row was removed
func (r *GormMessageRepository) Delete(ctx context.Context, kind messaging.Kind, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("kind = ? AND id = ?", kind, id).Delete(&models.MessageModel{})
	if result.Error != nil {
		return false, shared.NewStoreError("message.delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormMessageRepository implements MessageRepository
var _ messaging.MessageRepository = (*GormMessageRepository)(nil)
