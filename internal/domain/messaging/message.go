package messaging

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/crm/backend/internal/domain/shared"
)

const (
	maxTitleLength = 200
	maxBodyLength  = 10000
)

// Kind separates canned replies from outbound templates. Both share one shape.
type Kind string

const (
	KindCanned   Kind = "canned"
	KindTemplate Kind = "template"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	return k == KindCanned || k == KindTemplate
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Message is a reusable titled text snippet
type Message struct {
	shared.BaseEntity
	Kind  Kind
	Title string
	Body  string
}

// Patch holds optional replacements for a message. Nil fields are left as they are.
type Patch struct {
	Title *string
	Body  *string
}

// NewMessage creates a message of the given kind
func NewMessage(kind Kind, title, body string) (*Message, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("kind", "must be canned or template")
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if err := validate(title, body); err != nil {
		return nil, err
	}

	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       kind,
		Title:      title,
		Body:       body,
	}, nil
}

// Apply updates the message with the non-nil fields of the patch
func (m *Message) Apply(p Patch) error {
	title, body := m.Title, m.Body
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
	}
	if p.Body != nil {
		body = strings.TrimSpace(*p.Body)
	}
	if err := validate(title, body); err != nil {
		return err
	}

	m.Title = title
	m.Body = body
	m.UpdatedAt = time.Now()
	return nil
}

func validate(title, body string) error {
	verr := &shared.ValidationError{}
	switch {
	case title == "":
		verr.Add("title", "is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", "cannot exceed 200 characters")
	}
	switch {
	case body == "":
		verr.Add("body", "is required")
	case utf8.RuneCountInString(body) > maxBodyLength:
		verr.Add("body", "cannot exceed 10000 characters")
	}
	return verr.OrNil()
}
