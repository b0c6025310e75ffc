package messaging

import "context"

// MessageRepository persists canned and template messages.
// Every call is scoped to one kind.
type MessageRepository interface {
	// List returns all messages of a kind, newest first
	List(ctx context.Context, kind Kind) ([]Message, error)

	// FindByID finds a message by kind and ID
	FindByID(ctx context.Context, kind Kind, id int64) (*Message, error)

	// Save creates or updates a message
	Save(ctx context.Context, message *Message) error

	// Delete removes a message. It reports whether a row was removed.
	Delete(ctx context.Context, kind Kind, id int64) (bool, error)
}
