package models

import (
	"time"

	"github.com/crm/backend/internal/domain/lead"
)

// LeadModel is the persistence model for the Lead domain entity.
type LeadModel struct {
	AggregateModel
	Name           string `gorm:"type:varchar(200);not null"`
	Email          string `gorm:"type:varchar(200);index"`
	Phone          string `gorm:"type:varchar(50);not null;index"`
	ProductID      *int64 `gorm:"index"`
	StageID        *int64 `gorm:"index"`
	SourceID       *int64 `gorm:"index"`
	AssignedUserID *int64 `gorm:"index"`
	InitialRemarks string `gorm:"type:text"`
	Active         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead entity.
func (m *LeadModel) ToDomain() *lead.Lead {
	return &lead.Lead{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		ProductID:         m.ProductID,
		StageID:           m.StageID,
		SourceID:          m.SourceID,
		AssignedUserID:    m.AssignedUserID,
		InitialRemarks:    m.InitialRemarks,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Lead entity.
func (m *LeadModel) FromDomain(l *lead.Lead) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Name = l.Name
	m.Email = l.Email
	m.Phone = l.Phone
	m.ProductID = l.ProductID
	m.StageID = l.StageID
	m.SourceID = l.SourceID
	m.AssignedUserID = l.AssignedUserID
	m.InitialRemarks = l.InitialRemarks
	m.Active = l.Active
}

// UpdateColumns lists every mutable column, nil references included,
// so a versioned update can write them without gorm skipping zero values.
func (m *LeadModel) UpdateColumns() map[string]any {
	return map[string]any{
		"name":             m.Name,
		"email":            m.Email,
		"phone":            m.Phone,
		"product_id":       m.ProductID,
		"stage_id":         m.StageID,
		"source_id":        m.SourceID,
		"assigned_user_id": m.AssignedUserID,
		"initial_remarks":  m.InitialRemarks,
		"active":           m.Active,
		"updated_at":       m.UpdatedAt,
		"version":          m.Version,
	}
}

// LeadModelFromDomain creates a new persistence model from a domain Lead entity.
func LeadModelFromDomain(l *lead.Lead) *LeadModel {
	m := &LeadModel{}
	m.FromDomain(l)
	return m
}

// NoteModel is the persistence model for the Note domain entity.
type NoteModel struct {
	BaseModel
	LeadID   int64  `gorm:"not null;index"`
	AuthorID int64  `gorm:"not null;index"`
	Note     string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (NoteModel) TableName() string {
	return "lead_notes"
}

// ToDomain converts the persistence model to a domain Note entity.
func (m *NoteModel) ToDomain() *lead.Note {
	return &lead.Note{
		BaseEntity: m.BaseModel.ToDomain(),
		LeadID:     m.LeadID,
		AuthorID:   m.AuthorID,
		Text:       m.Note,
	}
}

// NoteModelFromDomain creates a new persistence model from a domain Note entity.
func NoteModelFromDomain(n *lead.Note) *NoteModel {
	m := &NoteModel{
		LeadID:   n.LeadID,
		AuthorID: n.AuthorID,
		Note:     n.Text,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}

// NoteViewRow is the scan target of the notes-with-author join.
type NoteViewRow struct {
	ID         int64
	LeadID     int64
	AuthorID   int64
	Note       string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ToDomain converts the row to a domain NoteView.
func (r *NoteViewRow) ToDomain() lead.NoteView {
	return lead.NoteView{
		Note: lead.Note{
			BaseEntity: (&BaseModel{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}).ToDomain(),
			LeadID:     r.LeadID,
			AuthorID:   r.AuthorID,
			Text:       r.Note,
		},
		AuthorName: r.AuthorName,
	}
}
