package models

import (
	"github.com/crm/backend/internal/domain/messaging"
)

// MessageModel is the persistence model for canned and template messages.
type MessageModel struct {
	BaseModel
	Kind  messaging.Kind `gorm:"type:varchar(20);not null;index"`
	Title string         `gorm:"type:varchar(200);not null"`
	Body  string         `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message entity.
func (m *MessageModel) ToDomain() *messaging.Message {
	return &messaging.Message{
		BaseEntity: m.BaseModel.ToDomain(),
		Kind:       m.Kind,
		Title:      m.Title,
		Body:       m.Body,
	}
}

// MessageModelFromDomain creates a new persistence model from a domain Message entity.
func MessageModelFromDomain(msg *messaging.Message) *MessageModel {
	m := &MessageModel{Kind: msg.Kind, Title: msg.Title, Body: msg.Body}
	m.FromDomainBaseEntity(msg.BaseEntity)
	return m
}
