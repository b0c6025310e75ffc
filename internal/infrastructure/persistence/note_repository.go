package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNoteRepository implements NoteRepository using GORM
type GormNoteRepository struct {
	db *gorm.DB
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

// Create inserts a note
func (r *GormNoteRepository) Create(ctx context.Context, note *lead.Note) error {
	model := models.NoteModelFromDomain(note)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return shared.NewStoreError("note.create", err)
	}
	model.CopyTo(&note.BaseEntity)
	return nil
}

// ListByLead returns a lead's notes newest-first with their author's name
func (r *GormNoteRepository) ListByLead(ctx context.Context, leadID int64) ([]lead.NoteView, error) {
	var rows []models.NoteViewRow
	err := r.db.WithContext(ctx).
		Table("lead_notes").
		Select("lead_notes.id, lead_notes.lead_id, lead_notes.author_id, lead_notes.note, " +
			"lead_notes.created_at, lead_notes.updated_at, COALESCE(users.name, '') AS author_name").
		Joins("LEFT JOIN users ON users.id = lead_notes.author_id").
		Where("lead_notes.lead_id = ?", leadID).
		Order("lead_notes.created_at DESC").
		Order("lead_notes.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, shared.NewStoreError("note.list", err)
	}

	notes := make([]lead.NoteView, len(rows))
	for i := range rows {
		notes[i] = rows[i].ToDomain()
	}
	return notes, nil
}

// CountByLead counts the notes attached to a lead
func (r *GormNoteRepository) CountByLead(ctx context.Context, leadID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NoteModel{}).Where("lead_id = ?", leadID).Count(&count).Error; err != nil {
		return 0, shared.NewStoreError("note.count", err)
	}
	return count, nil
}

// Ensure GormNoteRepository implements NoteRepository
var _ lead.NoteRepository = (*GormNoteRepository)(nil)
