package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/lead"
)

// LeadService is the part of lead.LeadService the handler uses.
type LeadService interface {
	Create(ctx context.Context, req lead.CreateLeadRequest) (*lead.LeadResponse, error)
	GetByID(ctx context.Context, id int64) (*lead.LeadResponse, error)
	List(ctx context.Context, filter lead.LeadListFilter) ([]lead.LeadResponse, int64, error)
	Update(ctx context.Context, id int64, req lead.UpdateLeadRequest) (*lead.LeadResponse, error)
	ChangeStage(ctx context.Context, id int64, req lead.ChangeStageRequest) (*lead.LeadResponse, error)
	Assign(ctx context.Context, id int64, req lead.AssignRequest) (*lead.LeadResponse, error)
	Activate(ctx context.Context, id int64) (*lead.LeadResponse, error)
	Deactivate(ctx context.Context, id int64) (*lead.LeadResponse, error)
	ListNotes(ctx context.Context, leadID int64) ([]lead.NoteResponse, error)
	AddNote(ctx context.Context, leadID, authorID int64, req lead.AddNoteRequest) (*lead.NoteResponse, error)
}

// LeadHandler serves leads and their notes
type LeadHandler struct {
	BaseHandler
	leadService LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create handles POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req lead.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.leadService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// GetByID handles GET /leads/:id
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	found, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// List handles GET /leads
func (h *LeadHandler) List(c *gin.Context) {
	var filter lead.LeadListFilter
	if !bindQuery(c, &filter) {
		return
	}
	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, leads, total, filter.Page, filter.PageSize)
}

// Update handles PUT /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req lead.UpdateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.leadService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ChangeStage handles PATCH /leads/:id/stage
func (h *LeadHandler) ChangeStage(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req lead.ChangeStageRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.leadService.ChangeStage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Assign handles PATCH /leads/:id/assignee
func (h *LeadHandler) Assign(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req lead.AssignRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.leadService.Assign(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Activate handles POST /leads/:id/activate
func (h *LeadHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.leadService.Activate)
}

// Deactivate handles POST /leads/:id/deactivate
func (h *LeadHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.leadService.Deactivate)
}

func (h *LeadHandler) changeStatus(c *gin.Context, apply func(context.Context, int64) (*lead.LeadResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	updated, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ListNotes handles GET /leads/:id/notes, newest first
func (h *LeadHandler) ListNotes(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	notes, err := h.leadService.ListNotes(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}

// AddNote handles POST /leads/:id/notes. The author is the caller.
func (h *LeadHandler) AddNote(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	authorID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req lead.AddNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.leadService.AddNote(c.Request.Context(), id, authorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}
