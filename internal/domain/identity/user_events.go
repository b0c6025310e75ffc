package identity

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserActivated   = "UserActivated"
	EventTypeUserDeactivated = "UserDeactivated"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Name     string `json:"name"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Name:            user.Name,
	}
}

// UserStatusChangedEvent is published on activation and deactivation
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Active   bool   `json:"active"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent.
// The event type follows the user's current active flag.
func NewUserStatusChangedEvent(user *User) *UserStatusChangedEvent {
	eventType := EventTypeUserDeactivated
	if user.Active {
		eventType = EventTypeUserActivated
	}
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Active:          user.Active,
	}
}
