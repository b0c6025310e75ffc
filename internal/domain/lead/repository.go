package lead

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
)

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	// FindByID finds a lead by its ID
	FindByID(ctx context.Context, id int64) (*Lead, error)

	// FindAll finds leads matching the filter.
	// Supported filters: active (bool), stage_id, assigned_user_id (int64).
	FindAll(ctx context.Context, filter shared.Filter) ([]Lead, error)

	// Count counts leads matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Exists reports whether a lead with the ID exists
	Exists(ctx context.Context, id int64) (bool, error)

	// Save creates or updates a lead. New leads receive their ID.
	// Updates are version-checked and fail with a CONCURRENT_MODIFICATION
	// error when the lead changed since it was read.
	Save(ctx context.Context, lead *Lead) error

	// Touch advances updated_at and version without rewriting other columns
	Touch(ctx context.Context, id int64) error
}

// NoteRepository defines the interface for note persistence. Notes are append-only.
type NoteRepository interface {
	// Create inserts a note and assigns its ID and timestamps
	Create(ctx context.Context, note *Note) error

	// ListByLead returns a lead's notes newest-first, ties broken by ID descending,
	// each joined with its author's display name
	ListByLead(ctx context.Context, leadID int64) ([]NoteView, error)

	// CountByLead counts the notes attached to a lead
	CountByLead(ctx context.Context, leadID int64) (int64, error)
}
