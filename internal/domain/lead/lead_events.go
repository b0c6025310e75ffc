package lead

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeLead = "Lead"

// Event type constants
const (
	EventTypeLeadCreated      = "LeadCreated"
	EventTypeLeadUpdated      = "LeadUpdated"
	EventTypeLeadStageChanged = "LeadStageChanged"
	EventTypeLeadAssigned     = "LeadAssigned"
	EventTypeLeadActivated    = "LeadActivated"
	EventTypeLeadDeactivated  = "LeadDeactivated"
	EventTypeLeadNoteAdded    = "LeadNoteAdded"
)

// LeadCreatedEvent is published when a new lead is stored
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	LeadID int64  `json:"lead_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(l *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		Name:            l.Name,
		Phone:           l.Phone,
	}
}

// LeadUpdatedEvent is published when contact fields change
type LeadUpdatedEvent struct {
	shared.BaseDomainEvent
	LeadID int64  `json:"lead_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone"`
}

// NewLeadUpdatedEvent creates a new LeadUpdatedEvent
func NewLeadUpdatedEvent(l *Lead) *LeadUpdatedEvent {
	return &LeadUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadUpdated, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		Name:            l.Name,
		Email:           l.Email,
		Phone:           l.Phone,
	}
}

// LeadStageChangedEvent is published when a lead moves between stages
type LeadStageChangedEvent struct {
	shared.BaseDomainEvent
	LeadID   int64  `json:"lead_id"`
	OldStage *int64 `json:"old_stage_id,omitempty"`
	NewStage *int64 `json:"new_stage_id,omitempty"`
}

// NewLeadStageChangedEvent creates a new LeadStageChangedEvent
func NewLeadStageChangedEvent(l *Lead, oldStage *int64) *LeadStageChangedEvent {
	return &LeadStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStageChanged, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		OldStage:        oldStage,
		NewStage:        l.StageID,
	}
}

// LeadAssignedEvent is published when the assignee changes
type LeadAssignedEvent struct {
	shared.BaseDomainEvent
	LeadID      int64  `json:"lead_id"`
	OldAssignee *int64 `json:"old_assigned_user_id,omitempty"`
	NewAssignee *int64 `json:"new_assigned_user_id,omitempty"`
}

// NewLeadAssignedEvent creates a new LeadAssignedEvent
func NewLeadAssignedEvent(l *Lead, oldAssignee *int64) *LeadAssignedEvent {
	return &LeadAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadAssigned, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		OldAssignee:     oldAssignee,
		NewAssignee:     l.AssignedUserID,
	}
}

// LeadStatusChangedEvent is published on activation and deactivation
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	LeadID int64 `json:"lead_id"`
	Active bool  `json:"active"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent of the given type
func NewLeadStatusChangedEvent(l *Lead, eventType string) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		Active:          l.Active,
	}
}

// LeadNoteAddedEvent is published when a note is appended to a lead
type LeadNoteAddedEvent struct {
	shared.BaseDomainEvent
	LeadID   int64 `json:"lead_id"`
	NoteID   int64 `json:"note_id"`
	AuthorID int64 `json:"author_id"`
}

// NewLeadNoteAddedEvent creates a new LeadNoteAddedEvent
func NewLeadNoteAddedEvent(l *Lead, note *Note) *LeadNoteAddedEvent {
	return &LeadNoteAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadNoteAdded, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		NoteID:          note.ID,
		AuthorID:        note.AuthorID,
	}
}
