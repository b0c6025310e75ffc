package lead

import (
	"strings"
	"unicode/utf8"

	"github.com/crm/backend/internal/domain/shared"
)

// MaxNoteLength is the longest note text accepted, in characters
const MaxNoteLength = 10000

// Note is an append-only comment on a lead, attributed to one user
type Note struct {
	shared.BaseEntity
	LeadID   int64
	AuthorID int64
	Text     string
}

// NoteView is a note joined with its author's display name
type NoteView struct {
	Note
	AuthorName string
}

// NewNote creates a note for a lead. Text must be non-empty after trimming.
func NewNote(leadID, authorID int64, text string) (*Note, error) {
	verr := &shared.ValidationError{}

	if leadID <= 0 {
		verr.Add("lead_id", "is required")
	}
	if authorID <= 0 {
		verr.Add("author_id", "is required")
	}

	text = strings.TrimSpace(text)
	switch {
	case text == "":
		verr.Add("note", "cannot be empty")
	case utf8.RuneCountInString(text) > MaxNoteLength:
		verr.Add("note", "cannot exceed 10000 characters")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Note{
		BaseEntity: shared.NewBaseEntity(),
		LeadID:     leadID,
		AuthorID:   authorID,
		Text:       text,
	}, nil
}
