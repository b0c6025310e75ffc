package lead

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/crm/backend/internal/domain/shared"
)

const (
	maxNameLength    = 200
	maxPhoneLength   = 50
	maxEmailLength   = 200
	maxRemarksLength = 5000
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Lead is a prospective-customer contact tracked through the sales pipeline.
// It is the aggregate root for its notes.
type Lead struct {
	shared.BaseAggregateRoot
	Name           string
	Email          string
	Phone          string
	ProductID      *int64
	StageID        *int64
	SourceID       *int64
	AssignedUserID *int64
	InitialRemarks string
	Active         bool
}

// Contact holds the editable contact fields of a lead
type Contact struct {
	Name           string
	Email          string
	Phone          string
	InitialRemarks string
}

// NewLead creates an active lead. Name and phone are required.
func NewLead(contact Contact) (*Lead, error) {
	contact = contact.normalized()
	if err := contact.validate(); err != nil {
		return nil, err
	}

	return &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              contact.Name,
		Email:             contact.Email,
		Phone:             contact.Phone,
		InitialRemarks:    contact.InitialRemarks,
		Active:            true,
	}, nil
}

// RecordCreated registers the creation event once the store has assigned an ID
func (l *Lead) RecordCreated() {
	l.AddDomainEvent(NewLeadCreatedEvent(l))
}

// UpdateContact replaces the contact fields
func (l *Lead) UpdateContact(contact Contact) error {
	contact = contact.normalized()
	if err := contact.validate(); err != nil {
		return err
	}

	l.Name = contact.Name
	l.Email = contact.Email
	l.Phone = contact.Phone
	l.InitialRemarks = contact.InitialRemarks
	l.touch()

	l.AddDomainEvent(NewLeadUpdatedEvent(l))
	return nil
}

// SetReferences sets the product and source references
func (l *Lead) SetReferences(productID, sourceID *int64) {
	l.ProductID = productID
	l.SourceID = sourceID
	l.touch()
}

// ChangeStage moves the lead to another pipeline stage
func (l *Lead) ChangeStage(stageID *int64) error {
	if stageID != nil && *stageID <= 0 {
		return shared.NewValidationError("stage_id", "must be a positive id")
	}
	if sameRef(l.StageID, stageID) {
		return nil
	}

	old := l.StageID
	l.StageID = stageID
	l.touch()

	l.AddDomainEvent(NewLeadStageChangedEvent(l, old))
	return nil
}

// AssignTo sets or clears the assignee. The caller checks the user exists.
func (l *Lead) AssignTo(userID *int64) error {
	if userID != nil && *userID <= 0 {
		return shared.NewValidationError("assigned_user_id", "must be a positive id")
	}
	if sameRef(l.AssignedUserID, userID) {
		return nil
	}

	old := l.AssignedUserID
	l.AssignedUserID = userID
	l.touch()

	l.AddDomainEvent(NewLeadAssignedEvent(l, old))
	return nil
}

// Activate marks the lead as active
func (l *Lead) Activate() error {
	if l.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Lead is already active")
	}

	l.Active = true
	l.touch()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, EventTypeLeadActivated))
	return nil
}

// Deactivate marks the lead as inactive. Leads are never hard-deleted.
func (l *Lead) Deactivate() error {
	if !l.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Lead is already inactive")
	}

	l.Active = false
	l.touch()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, EventTypeLeadDeactivated))
	return nil
}

// NoteAdded refreshes the lead after a note was appended
func (l *Lead) NoteAdded(note *Note) {
	l.touch()
	l.AddDomainEvent(NewLeadNoteAddedEvent(l, note))
}

// IsAssigned reports whether the lead has an assignee
func (l *Lead) IsAssigned() bool {
	return l.AssignedUserID != nil
}

// touch stamps the update time. The repository advances Version when the write lands.
func (l *Lead) touch() {
	l.UpdatedAt = time.Now()
}

func (c Contact) normalized() Contact {
	return Contact{
		Name:           strings.TrimSpace(c.Name),
		Email:          strings.TrimSpace(c.Email),
		Phone:          strings.TrimSpace(c.Phone),
		InitialRemarks: strings.TrimSpace(c.InitialRemarks),
	}
}

func (c Contact) validate() error {
	verr := &shared.ValidationError{}

	switch {
	case c.Name == "":
		verr.Add("name", "is required")
	case utf8.RuneCountInString(c.Name) > maxNameLength:
		verr.Add("name", "cannot exceed 200 characters")
	}

	switch {
	case c.Phone == "":
		verr.Add("phone", "is required")
	case utf8.RuneCountInString(c.Phone) > maxPhoneLength:
		verr.Add("phone", "cannot exceed 50 characters")
	case !phonePattern.MatchString(c.Phone):
		verr.Add("phone", "invalid phone number format")
	}

	if c.Email != "" {
		if utf8.RuneCountInString(c.Email) > maxEmailLength || !emailPattern.MatchString(c.Email) {
			verr.Add("email", "invalid email format")
		}
	}

	if utf8.RuneCountInString(c.InitialRemarks) > maxRemarksLength {
		verr.Add("initial_remarks", "cannot exceed 5000 characters")
	}

	return verr.OrNil()
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
