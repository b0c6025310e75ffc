package lead

import (
	"time"

	"github.com/crm/backend/internal/domain/lead"
)

// CreateLeadRequest represents a request to create a lead
type CreateLeadRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Phone          string `json:"phone" binding:"required,min=1,max=50"`
	ProductID      *int64 `json:"product_id" binding:"omitempty,gt=0"`
	StageID        *int64 `json:"stage_id" binding:"omitempty,gt=0"`
	SourceID       *int64 `json:"source_id" binding:"omitempty,gt=0"`
	AssignedUserID *int64 `json:"assigned_user_id" binding:"omitempty,gt=0"`
	InitialRemarks string `json:"initial_remarks" binding:"max=5000"`
}

// UpdateLeadRequest replaces the contact fields and references of a lead
type UpdateLeadRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Phone          string `json:"phone" binding:"required,min=1,max=50"`
	ProductID      *int64 `json:"product_id" binding:"omitempty,gt=0"`
	SourceID       *int64 `json:"source_id" binding:"omitempty,gt=0"`
	InitialRemarks string `json:"initial_remarks" binding:"max=5000"`
}

// ChangeStageRequest moves a lead to a stage, or clears it when StageID is nil
type ChangeStageRequest struct {
	StageID *int64 `json:"stage_id" binding:"omitempty,gt=0"`
}

// AssignRequest sets the assignee, or unassigns when UserID is nil
type AssignRequest struct {
	UserID *int64 `json:"assigned_user_id" binding:"omitempty,gt=0"`
}

// AddNoteRequest appends a note to a lead
type AddNoteRequest struct {
	Note string `json:"note" binding:"required,max=10000"`
}

// LeadListFilter represents filter options for the lead list
type LeadListFilter struct {
	Search         string `form:"search"`
	Active         *bool  `form:"active"`
	StageID        *int64 `form:"stage_id"`
	AssignedUserID *int64 `form:"assigned_user_id"`
	Page           int    `form:"page" binding:"min=0"`
	PageSize       int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone"`
	ProductID      *int64    `json:"product_id,omitempty"`
	StageID        *int64    `json:"stage_id,omitempty"`
	SourceID       *int64    `json:"source_id,omitempty"`
	AssignedUserID *int64    `json:"assigned_user_id,omitempty"`
	InitialRemarks string    `json:"initial_remarks,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NoteResponse represents a note in API responses
type NoteResponse struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"lead_id"`
	Note       string    `json:"note"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToLeadResponse converts a domain Lead to LeadResponse
func ToLeadResponse(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		ProductID:      l.ProductID,
		StageID:        l.StageID,
		SourceID:       l.SourceID,
		AssignedUserID: l.AssignedUserID,
		InitialRemarks: l.InitialRemarks,
		Active:         l.Active,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ToLeadResponses converts a slice of leads
func ToLeadResponses(leads []lead.Lead) []LeadResponse {
	responses := make([]LeadResponse, len(leads))
	for i := range leads {
		responses[i] = ToLeadResponse(&leads[i])
	}
	return responses
}

// ToNoteResponse converts a domain Note to NoteResponse
func ToNoteResponse(n *lead.Note, authorName string) NoteResponse {
	return NoteResponse{
		ID:         n.ID,
		LeadID:     n.LeadID,
		Note:       n.Text,
		AuthorID:   n.AuthorID,
		AuthorName: authorName,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// ToNoteResponses converts note views, keeping their order
func ToNoteResponses(views []lead.NoteView) []NoteResponse {
	responses := make([]NoteResponse, len(views))
	for i := range views {
		responses[i] = ToNoteResponse(&views[i].Note, views[i].AuthorName)
	}
	return responses
}
